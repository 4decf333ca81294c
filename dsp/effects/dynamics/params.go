package dynamics

import (
	"fmt"

	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/easing"
)

const (
	defaultLookaheadMs = 3.0
	defaultReleaseMs   = 50.0

	minDriveDB           = 0.0
	maxDriveDB           = 60.0
	minTrimDB            = -1.0
	maxTrimDB            = 0.0
	minLookaheadMs       = 0.0
	maxLookaheadMs       = 50.0
	minLookaheadAccuracy = 1
	maxLookaheadAccuracy = 16
	minHoldMs            = 0.0
	maxHoldMs            = 1000.0
	minReleaseMs         = 0.0
	maxReleaseMs         = 3000.0
)

// Params is the complete limiter configuration. The zero value is not
// valid; start from DefaultParams.
type Params struct {
	DriveDB float64 // input gain before detection
	TrimDB  float64 // static output offset

	LookaheadMs       float64
	LookaheadAccuracy int // peak rescan stride in samples

	AttackAmount float64 // scales the attack candidate, [0, 1]
	AttackShape  easing.Shape

	HoldMs     float64
	HoldAmount float64 // hold plateau is target*sqrt(HoldAmount)

	ReleaseMs    float64
	ReleaseShape easing.Shape

	StereoLink       float64 // 0 = independent, 1 = fully linked
	GainCompensation bool    // offsets half of the drive
}

// DefaultParams returns transparent settings with a 3 ms lookahead.
func DefaultParams() Params {
	return Params{
		LookaheadMs:       defaultLookaheadMs,
		LookaheadAccuracy: minLookaheadAccuracy,
		AttackAmount:      1,
		AttackShape:       easing.DefaultShape(),
		HoldAmount:        1,
		ReleaseMs:         defaultReleaseMs,
		ReleaseShape:      easing.DefaultShape(),
	}
}

// Validate reports the first field outside its range.
func (p Params) Validate() error {
	ranges := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"drive", p.DriveDB, minDriveDB, maxDriveDB},
		{"trim", p.TrimDB, minTrimDB, maxTrimDB},
		{"lookahead", p.LookaheadMs, minLookaheadMs, maxLookaheadMs},
		{"attack amount", p.AttackAmount, 0, 1},
		{"hold", p.HoldMs, minHoldMs, maxHoldMs},
		{"hold amount", p.HoldAmount, 0, 1},
		{"release", p.ReleaseMs, minReleaseMs, maxReleaseMs},
		{"stereo link", p.StereoLink, 0, 1},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max || !core.IsFinite(r.value) {
			return fmt.Errorf("lookahead limiter %s must be in [%f, %f]: %f",
				r.name, r.min, r.max, r.value)
		}
	}

	if p.LookaheadAccuracy < minLookaheadAccuracy || p.LookaheadAccuracy > maxLookaheadAccuracy {
		return fmt.Errorf("lookahead limiter lookahead accuracy must be in [%d, %d]: %d",
			minLookaheadAccuracy, maxLookaheadAccuracy, p.LookaheadAccuracy)
	}

	if err := p.AttackShape.Validate(); err != nil {
		return fmt.Errorf("lookahead limiter attack %w", err)
	}

	if err := p.ReleaseShape.Validate(); err != nil {
		return fmt.Errorf("lookahead limiter release %w", err)
	}

	return nil
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	return nil
}
