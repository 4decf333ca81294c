// Package easing provides stateless shaping curves that bend a normalized
// progress value in [0, 1] away from linear.
//
// Curves compose statically through generics: an S-curve is parameterized by
// the curve that crossfades its two halves, and a linear blend wraps any
// curve. Every Process call is a pure function of its input and the
// captured parameters and never allocates, so curves may be rebuilt from
// parameter values at the start of every audio block.
//
// Included curves:
//   - Identity: returns its input.
//   - EaseIn / EaseOut: power curves with a polarity that selects between the
//     convex and concave variant.
//   - SCurve: an ease-in half and an ease-out half joined around a center
//     point with a smoothed crossfade.
//   - LinearBlend: mixes any curve with the identity.
//
// BuildEnvelope assembles the full attack/release envelope shape from a flat
// Shape parameter set. Points and AttackPoints sample a curve for display.
package easing
