//go:build fastmath

package core

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// dbPerNeper converts natural log to 20*log10 dB: 20/ln(10).
const dbPerNeper = 8.685889638065036553

// DBToLinear converts dB to linear amplitude using a fast exp approximation.
func DBToLinear(db float64) float64 {
	return approx.FastExp(db / dbPerNeper)
}

// LinearToDB converts linear amplitude to dB using a fast log approximation.
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return approx.FastLog(linear) * dbPerNeper
}

// GainToDB converts the magnitude of a sample to dB, floored at SilenceDB.
func GainToDB(sample float64) float64 {
	mag := math.Abs(sample)
	if mag <= silenceGain {
		return SilenceDB
	}

	return approx.FastLog(mag) * dbPerNeper
}
