//go:build !fastmath

package core

import "math"

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// GainToDB converts the magnitude of a sample to dB, floored at SilenceDB.
// Unlike LinearToDB it accepts signed samples and never returns -Inf or NaN
// for finite input.
func GainToDB(sample float64) float64 {
	mag := math.Abs(sample)
	if mag <= silenceGain {
		return SilenceDB
	}

	return 20 * math.Log10(mag)
}
