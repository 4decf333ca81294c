package dynamics

import (
	"math"

	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/easing"
	"github.com/cwbudde/limit2zero/dsp/lookahead"
)

// Stage identifies the active envelope phase.
type Stage uint8

const (
	// StageOff applies no reduction.
	StageOff Stage = iota
	// StageHold freezes the reduction at the hold value.
	StageHold
	// StageRelease relaxes the reduction toward 0 dB.
	StageRelease
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageOff:
		return "off"
	case StageHold:
		return "hold"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// EnvelopeState is the per-channel envelope phase and the number of samples
// spent in it. Elapsed is meaningless when Stage is StageOff.
type EnvelopeState struct {
	Stage   Stage
	Elapsed float64
}

// OffState returns the idle state.
func OffState() EnvelopeState { return EnvelopeState{Stage: StageOff} }

// HoldState returns a hold phase that has run for elapsed samples.
func HoldState(elapsed float64) EnvelopeState {
	return EnvelopeState{Stage: StageHold, Elapsed: elapsed}
}

// ReleaseState returns a release phase that has run for elapsed samples.
func ReleaseState(elapsed float64) EnvelopeState {
	return EnvelopeState{Stage: StageRelease, Elapsed: elapsed}
}

// timing holds the per-sample constants shared by all channels.
type timing struct {
	holdLen      float64 // samples, may be fractional
	releaseLen   float64 // samples, may be fractional
	holdScale    float64 // sqrt(HoldAmount)
	attackAmount float64
	attack       *easing.Envelope
	release      *easing.Envelope
}

// entry is the state a fresh reduction starts in.
func (tm *timing) entry() EnvelopeState {
	switch {
	case tm.holdLen >= 1:
		return HoldState(0)
	case tm.releaseLen >= 1:
		return ReleaseState(0)
	default:
		return OffState()
	}
}

// channel owns one channel's lookahead buffer and envelope.
type channel struct {
	buf   *lookahead.Buffer
	state EnvelopeState

	envelope  float64 // dB, always <= 0
	target    float64 // dB the release starts from
	holdValue float64 // dB frozen during hold

	scanPhase int
}

func newChannel(lookaheadLen int) *channel {
	return &channel{buf: lookahead.NewBuffer(lookaheadLen)}
}

func (c *channel) reset() {
	c.buf.Reset()
	c.state = OffState()
	c.envelope = 0
	c.target = 0
	c.holdValue = 0
	c.scanPhase = 0
}

// tick advances the current phase by one sample.
func (c *channel) tick(tm *timing) {
	switch c.state.Stage {
	case StageHold:
		if c.state.Elapsed == 0 {
			c.target = c.holdValue
			c.envelope = c.holdValue
		}

		c.state.Elapsed++
		if c.state.Elapsed >= tm.holdLen {
			if tm.releaseLen >= 1 {
				c.state = ReleaseState(0)
			} else {
				c.state = OffState()
			}
		}

	case StageRelease:
		if c.state.Elapsed == 0 {
			c.target = c.holdValue
			c.envelope = c.holdValue
		}

		c.state.Elapsed++
		progress := core.Clamp(c.state.Elapsed/tm.releaseLen, 0, 1)
		c.envelope = core.Lerp(c.target, 0, tm.release.Process(progress))
		if c.envelope > 0 {
			c.envelope = 0
		}

		if c.state.Elapsed >= tm.releaseLen {
			c.state = OffState()
		}

	default:
		if c.envelope != 0 || c.target != 0 || c.holdValue != 0 {
			c.envelope = 0
			c.target = 0
			c.holdValue = 0
		}
	}
}

// attack retriggers the envelope when the strongest pending peak asks for
// more reduction than is currently applied.
func (c *channel) attack(tm *timing, search lookahead.PeakSearch, stride int) {
	phase := c.scanPhase
	c.scanPhase++
	if c.scanPhase >= stride {
		c.scanPhase = 0
	}
	if phase != 0 {
		return
	}

	peak, ok := search.Strongest(c.buf)
	if !ok {
		return
	}

	t := c.buf.Position(peak)
	candidate := core.Lerp(0, -peak.LevelDB, tm.attack.Process(t)) * tm.attackAmount
	if candidate < c.envelope {
		c.engage(tm, candidate)
	}
}

// clamp forces enough reduction for the delayed sample to sit at the
// ceiling when the envelope falls short.
func (c *channel) clamp(tm *timing, delayed lookahead.Sample) {
	if delayed.LevelDB+c.envelope > 0 {
		c.engage(tm, -delayed.LevelDB)
	}
}

func (c *channel) engage(tm *timing, reduction float64) {
	c.target = reduction
	c.holdValue = reduction * tm.holdScale
	c.envelope = reduction
	c.state = tm.entry()
}

func holdScale(amount float64) float64 {
	return math.Sqrt(core.Clamp(amount, 0, 1))
}
