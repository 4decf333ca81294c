package easing

import (
	"math"

	"github.com/cwbudde/limit2zero/dsp/core"
)

// minPower keeps power exponents strictly positive.
const minPower = 1e-3

// Curve maps normalized progress to shaped progress.
type Curve interface {
	Process(x float64) float64
}

// Identity is the linear curve.
type Identity struct{}

// Process returns x unchanged.
func (Identity) Process(x float64) float64 { return x }

// EaseIn is a power curve starting slowly.
//
// Polarity 1 gives x^Power, polarity 0 gives 1-(1-x)^(1/Power). Any other
// polarity crossfades between the two using x as the blend factor.
type EaseIn struct {
	Polarity float64
	Power    float64
}

// NewEaseIn returns an EaseIn curve.
func NewEaseIn(polarity, power float64) EaseIn {
	return EaseIn{Polarity: polarity, Power: power}
}

// Process evaluates the curve at x.
func (e EaseIn) Process(x float64) float64 {
	k := math.Max(e.Power, minPower)

	switch core.Clamp(e.Polarity, 0, 1) {
	case 1:
		return math.Pow(x, k)
	case 0:
		return 1 - math.Pow(1-x, 1/k)
	default:
		return core.Lerp(1-math.Pow(1-x, 1/k), math.Pow(x, k), x)
	}
}

// EaseOut mirrors EaseIn.
//
// Polarity 1 gives 1-(1-x)^Power, polarity 0 gives x^(1/Power).
type EaseOut struct {
	Polarity float64
	Power    float64
}

// NewEaseOut returns an EaseOut curve.
func NewEaseOut(polarity, power float64) EaseOut {
	return EaseOut{Polarity: polarity, Power: power}
}

// Process evaluates the curve at x.
func (e EaseOut) Process(x float64) float64 {
	k := math.Max(e.Power, minPower)

	switch core.Clamp(e.Polarity, 0, 1) {
	case 1:
		return 1 - math.Pow(1-x, k)
	case 0:
		return math.Pow(x, 1/k)
	default:
		return core.Lerp(math.Pow(x, 1/k), 1-math.Pow(1-x, k), x)
	}
}

// LinearBlend mixes Curve with the identity. Linearity 1 is the identity,
// linearity 0 is Curve unmodified.
type LinearBlend[C Curve] struct {
	Curve     C
	Linearity float64
}

// NewLinearBlend wraps curve.
func NewLinearBlend[C Curve](curve C, linearity float64) LinearBlend[C] {
	return LinearBlend[C]{Curve: curve, Linearity: linearity}
}

// Process evaluates the blended curve at x.
func (b LinearBlend[C]) Process(x float64) float64 {
	return core.Lerp(b.Curve.Process(x), x, core.Clamp(b.Linearity, 0, 1))
}
