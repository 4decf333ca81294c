package dynamics

import (
	"testing"

	"github.com/cwbudde/limit2zero/dsp/easing"
	"github.com/cwbudde/limit2zero/dsp/lookahead"
)

type countingSearch struct {
	lookahead.ScalarSearch
	n int
}

func (s *countingSearch) Strongest(b *lookahead.Buffer) (lookahead.PeakRecord, bool) {
	s.n++
	return s.ScalarSearch.Strongest(b)
}

func (s *countingSearch) calls() int { return s.n }

func lookaheadSample(levelDB float64) lookahead.Sample {
	return lookahead.Sample{Amplitude: 1, LevelDB: levelDB}
}

func linearTiming(holdLen, releaseLen, holdAmount float64) *timing {
	curve := easing.BuildEnvelope(easing.LinearShape())
	return &timing{
		holdLen:      holdLen,
		releaseLen:   releaseLen,
		holdScale:    holdScale(holdAmount),
		attackAmount: 1,
		attack:       &curve,
		release:      &curve,
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageOff, "off"},
		{StageHold, "hold"},
		{StageRelease, "release"},
		{Stage(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Fatalf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestEnvelopeEntryState(t *testing.T) {
	tests := []struct {
		name      string
		hold, rel float64
		wantStage Stage
	}{
		{"hold", 10, 10, StageHold},
		{"hold without release", 1, 0, StageHold},
		{"fractional hold skips to release", 0.5, 3, StageRelease},
		{"release only", 0, 1, StageRelease},
		{"nothing", 0.9, 0.9, StageOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChannel(0)
			c.engage(linearTiming(tt.hold, tt.rel, 1), -4)

			if c.state != (EnvelopeState{Stage: tt.wantStage}) {
				t.Fatalf("state = %+v, want %v(0)", c.state, tt.wantStage)
			}
			if c.envelope != -4 || c.target != -4 {
				t.Fatalf("envelope=%v target=%v, want -4", c.envelope, c.target)
			}
		})
	}
}

func TestEnvelopeFractionalHold(t *testing.T) {
	tm := linearTiming(2.5, 0, 1)
	c := newChannel(0)
	c.engage(tm, -3)

	ticks := 0
	for c.state.Stage == StageHold {
		c.tick(tm)
		ticks++
		if c.envelope != -3 {
			t.Fatalf("tick %d: envelope %v during hold", ticks, c.envelope)
		}
	}

	if ticks != 3 {
		t.Fatalf("hold of 2.5 samples lasted %d ticks, want 3", ticks)
	}

	c.tick(tm)
	if c.envelope != 0 || c.target != 0 || c.holdValue != 0 {
		t.Fatal("off tick must clear all levels")
	}
}

func TestEnvelopeHoldAmountScalesPlateau(t *testing.T) {
	tm := linearTiming(4, 4, 0.25)
	c := newChannel(0)
	c.engage(tm, -8)

	if c.envelope != -8 || c.holdValue != -4 {
		t.Fatalf("envelope=%v holdValue=%v, want -8/-4", c.envelope, c.holdValue)
	}

	c.tick(tm)
	if c.envelope != -4 || c.target != -4 {
		t.Fatalf("first hold tick: envelope=%v target=%v, want -4", c.envelope, c.target)
	}
}

func TestEnvelopeReleaseReachesZero(t *testing.T) {
	tm := linearTiming(0, 4, 1)
	c := newChannel(0)
	c.engage(tm, -8)

	want := []float64{-6, -4, -2, 0}
	for i, w := range want {
		c.tick(tm)
		if diff := c.envelope - w; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("release tick %d: envelope %v, want %v", i, c.envelope, w)
		}
	}
	if c.state != OffState() {
		t.Fatalf("state after release = %+v, want off", c.state)
	}
}

func TestEnvelopeClampOnlyWhenUnderReduced(t *testing.T) {
	tm := linearTiming(0, 0, 1)
	c := newChannel(0)
	c.envelope = -6

	c.clamp(tm, lookaheadSample(5))
	if c.envelope != -6 {
		t.Fatalf("sufficient reduction was replaced: %v", c.envelope)
	}

	c.clamp(tm, lookaheadSample(7))
	if c.envelope != -7 {
		t.Fatalf("clamp envelope = %v, want -7", c.envelope)
	}
}

func TestEnvelopeAttackStride(t *testing.T) {
	tm := linearTiming(100, 0, 1)
	c := newChannel(4)
	search := &countingSearch{}

	for i := range 3 {
		c.buf.Push(2)
		c.attack(tm, search, 3)
		c.buf.Pop()
		if i == 0 && c.envelope >= 0 {
			t.Fatal("first sample must be scanned")
		}
		if i > 0 && search.calls() != 1 {
			t.Fatalf("sample %d: scanned inside stride", i)
		}
	}

	c.attack(tm, search, 3)
	if search.calls() != 2 {
		t.Fatalf("calls = %d, want 2 after a full stride", search.calls())
	}
}
