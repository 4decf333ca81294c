package dynamics

import "github.com/cwbudde/limit2zero/dsp/core"

// StereoLink writes each channel's applied reduction to dst, pulling it
// toward the deepest reduction among envelopes by amount in [0, 1].
// dst may alias envelopes.
func StereoLink(dst, envelopes []float64, amount float64) {
	if len(envelopes) == 0 {
		return
	}

	deepest := envelopes[0]
	for _, e := range envelopes[1:] {
		if e < deepest {
			deepest = e
		}
	}

	amount = core.Clamp(amount, 0, 1)
	n := min(len(dst), len(envelopes))
	for i := range n {
		dst[i] = core.Lerp(envelopes[i], deepest, amount)
	}
}

// CompensationDB returns the make-up offset for driveDB: half the drive,
// negated, when enabled.
func CompensationDB(driveDB float64, enabled bool) float64 {
	if !enabled {
		return 0
	}
	return -0.5 * driveDB
}

// GainDB sums the applied reduction, trim and compensation into the total
// gain offset of the output stage.
func GainDB(applied, trimDB, compensationDB float64) float64 {
	return applied + trimDB + compensationDB
}
