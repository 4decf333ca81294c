// Package dynamics provides the lookahead limiting engine.
//
// A LookaheadLimiter delays every channel by the lookahead time and scans
// the pending samples for the peak that needs reduction most urgently. The
// per-channel envelope moves through three stages:
//   - Off: no reduction.
//   - Hold: the reduction is frozen for the hold time.
//   - Release: the reduction relaxes to 0 dB along the release curve.
//
// Attack and release curves are built from easing.Shape values. After the
// per-channel envelopes are final for a sample, StereoLink couples them and
// the gain stage applies reduction, trim and optional drive compensation.
package dynamics
