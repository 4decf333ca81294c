package easing

import "github.com/cwbudde/limit2zero/dsp/core"

// smoothingEpsilon is the minimum half-width of the crossfade region.
const smoothingEpsilon = 1e-7

// SCurve joins an ease-in half on [0, SmoothingEnd] with an ease-out half on
// [SmoothingStart, 1]. Where both halves contribute, they are crossfaded
// using Blend evaluated at the local crossfade progress.
type SCurve[N Curve] struct {
	In        EaseIn
	Out       EaseOut
	Center    float64 // split point in (0, 1)
	Smoothing float64 // crossfade width as a fraction of each half, [0, 1]
	Blend     N
}

// NewSCurve returns an SCurve.
func NewSCurve[N Curve](in EaseIn, out EaseOut, center, smoothing float64, blend N) SCurve[N] {
	return SCurve[N]{
		In:        in,
		Out:       out,
		Center:    center,
		Smoothing: smoothing,
		Blend:     blend,
	}
}

// Bounds returns the start and end of the crossfade region.
func (s SCurve[N]) Bounds() (start, end float64) {
	c := core.Clamp(s.Center, 0, 1)
	sm := core.Clamp(s.Smoothing, 0, 1)

	start = c - max(c*sm, smoothingEpsilon)
	end = c + max((1-c)*sm, smoothingEpsilon)

	return start, end
}

// Process evaluates the curve at x.
func (s SCurve[N]) Process(x float64) float64 {
	start, end := s.Bounds()

	inLen := end
	inProg := x / inLen

	outLen := 1 - start
	outProg := (x - start) / outLen

	var in, out float64
	if inProg < 1 {
		in = s.In.Process(inProg) * inLen
	}

	if outProg > 0 {
		out = s.Out.Process(outProg)*outLen + start
	}

	if in != 0 && out != 0 {
		return core.Lerp(in, out, s.Blend.Process((x-start)/(end-start)))
	}

	return in + out
}
