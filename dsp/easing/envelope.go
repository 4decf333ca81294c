package easing

import (
	"fmt"

	"github.com/cwbudde/limit2zero/dsp/core"
)

const (
	minShapePower = 0.25
	maxShapePower = 8.0

	// smoothingCoupling is how far zero linearity pulls the crossfade width
	// toward full smoothing.
	smoothingCoupling = 0.5
)

// Envelope is the composed attack/release shape produced by BuildEnvelope.
type Envelope = LinearBlend[SCurve[SCurve[Identity]]]

// NestedShape shapes the crossfade between the two halves of the envelope
// S-curve.
type NestedShape struct {
	PolarityIn  float64
	PolarityOut float64
	PowerIn     float64
	PowerOut    float64
}

// Shape is the flat parameter set describing one envelope curve.
type Shape struct {
	Linearity   float64 // 1 = straight line, 0 = fully shaped
	Center      float64 // split point of the S-curve
	Smoothing   float64 // raw crossfade width, see EffectiveSmoothing
	PolarityIn  float64
	PolarityOut float64
	PowerIn     float64
	PowerOut    float64
	Nested      NestedShape
}

// DefaultShape returns a symmetric ease-in/ease-out shape.
func DefaultShape() Shape {
	return Shape{
		Linearity:   0,
		Center:      0.5,
		Smoothing:   0.5,
		PolarityIn:  1,
		PolarityOut: 1,
		PowerIn:     2,
		PowerOut:    2,
		Nested: NestedShape{
			PolarityIn:  1,
			PolarityOut: 1,
			PowerIn:     2,
			PowerOut:    2,
		},
	}
}

// LinearShape returns a shape whose envelope is the identity.
func LinearShape() Shape {
	s := DefaultShape()
	s.Linearity = 1
	return s
}

// Validate checks all fields against their ranges.
func (s Shape) Validate() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"linearity", s.Linearity},
		{"center", s.Center},
		{"smoothing", s.Smoothing},
		{"polarity in", s.PolarityIn},
		{"polarity out", s.PolarityOut},
		{"smoothing polarity in", s.Nested.PolarityIn},
		{"smoothing polarity out", s.Nested.PolarityOut},
	}
	for _, f := range unit {
		if f.value < 0 || f.value > 1 || !core.IsFinite(f.value) {
			return fmt.Errorf("shape %s must be in [0, 1]: %f", f.name, f.value)
		}
	}

	powers := []struct {
		name  string
		value float64
	}{
		{"power in", s.PowerIn},
		{"power out", s.PowerOut},
		{"smoothing power in", s.Nested.PowerIn},
		{"smoothing power out", s.Nested.PowerOut},
	}
	for _, f := range powers {
		if f.value < minShapePower || f.value > maxShapePower || !core.IsFinite(f.value) {
			return fmt.Errorf("shape %s must be in [%f, %f]: %f",
				f.name, minShapePower, maxShapePower, f.value)
		}
	}

	return nil
}

// EffectiveSmoothing is the crossfade width used by the outer S-curve.
// Lower linearity widens it toward full smoothing.
func (s Shape) EffectiveSmoothing() float64 {
	lin := core.Clamp(s.Linearity, 0, 1)
	return core.Lerp(core.Clamp(s.Smoothing, 0, 1), 1, (1-lin)*smoothingCoupling)
}

// NestedSmoothing is the crossfade width used by the nested S-curve that
// blends the two outer halves.
func (s Shape) NestedSmoothing() float64 {
	lin := core.Clamp(s.Linearity, 0, 1)
	return core.Lerp(s.EffectiveSmoothing(), 1, 1-lin)
}

// BuildEnvelope composes the envelope curve for s.
func BuildEnvelope(s Shape) Envelope {
	nested := NewSCurve(
		NewEaseIn(s.Nested.PolarityIn, s.Nested.PowerIn),
		NewEaseOut(s.Nested.PolarityOut, s.Nested.PowerOut),
		0.5,
		s.NestedSmoothing(),
		Identity{},
	)

	outer := NewSCurve(
		NewEaseIn(s.PolarityIn, s.PowerIn),
		NewEaseOut(s.PolarityOut, s.PowerOut),
		s.Center,
		s.EffectiveSmoothing(),
		nested,
	)

	return NewLinearBlend(outer, s.Linearity)
}
