package lookahead

import (
	"math"
	"testing"

	"github.com/cwbudde/limit2zero/dsp/core"
)

func TestNewBufferPrimedWithSilence(t *testing.T) {
	for _, length := range []int{0, 1, 7, 64} {
		b := NewBuffer(length)
		if b.Len() != length || b.Lookahead() != length {
			t.Fatalf("length %d: Len()=%d Lookahead()=%d", length, b.Len(), b.Lookahead())
		}
		for i := range b.Len() {
			s := b.At(i)
			if s.Amplitude != 0 || s.LevelDB != core.SilenceDB {
				t.Fatalf("length %d: slot %d = %+v, want silence", length, i, s)
			}
		}
		if b.Peaks() != 0 {
			t.Fatalf("length %d: Peaks() = %d, want 0", length, b.Peaks())
		}
	}
}

func TestNewBufferNegativeLength(t *testing.T) {
	b := NewBuffer(-3)
	if b.Lookahead() != 0 || b.Len() != 0 {
		t.Fatalf("Lookahead()=%d Len()=%d, want 0", b.Lookahead(), b.Len())
	}
}

func TestBufferFIFOInvariant(t *testing.T) {
	const length = 5
	b := NewBuffer(length)

	for i := range 100 {
		in := float64(i+1) * 0.01
		b.Push(in)
		out := b.Pop()

		if b.Len() != length {
			t.Fatalf("step %d: Len() = %d, want %d", i, b.Len(), length)
		}

		want := 0.0
		if i >= length {
			want = float64(i+1-length) * 0.01
		}
		if out.Amplitude != want {
			t.Fatalf("step %d: popped %v, want %v", i, out.Amplitude, want)
		}
	}
}

func TestBufferZeroLengthPassesThrough(t *testing.T) {
	b := NewBuffer(0)
	for _, v := range []float64{0.5, -2, 1} {
		b.Push(v)
		if got := b.Pop(); got.Amplitude != v {
			t.Fatalf("popped %v, want %v", got.Amplitude, v)
		}
	}
}

func TestBufferPushWithoutPopKeepsCapacity(t *testing.T) {
	b := NewBuffer(2)
	b.Push(0.1)
	b.Push(0.2)
	b.Push(0.3)

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	if got := b.Pop().Amplitude; got != 0.1 {
		t.Fatalf("oldest = %v, want 0.1", got)
	}
}

func TestBufferPopEmpty(t *testing.T) {
	b := NewBuffer(0)
	s := b.Pop()
	if s.Amplitude != 0 || s.LevelDB != core.SilenceDB {
		t.Fatalf("Pop() on empty buffer = %+v", s)
	}
}

func TestSampleLevel(t *testing.T) {
	s := NewSample(-2)
	if math.Abs(s.LevelDB-20*math.Log10(2)) > 1e-12 || !s.Over() {
		t.Fatalf("NewSample(-2) = %+v", s)
	}
	if NewSample(1).Over() {
		t.Fatal("unity must not be over threshold")
	}
}

func TestPeakRecordsLifecycle(t *testing.T) {
	const length = 4
	b := NewBuffer(length)

	b.Push(2) // +6 dB
	if b.Peaks() != 1 {
		t.Fatalf("Peaks() = %d, want 1", b.Peaks())
	}
	if p := b.Peak(0); p.Age != 0 {
		t.Fatalf("fresh peak age = %d, want 0", p.Age)
	}
	b.Pop()

	for step := 1; step <= length; step++ {
		b.Push(0.5)
		if p := b.Peak(0); p.Age != step {
			t.Fatalf("step %d: age = %d", step, p.Age)
		}
		popped := b.Pop()

		if step < length {
			if b.Peaks() != 1 || popped.Over() {
				t.Fatalf("step %d: peak left too early", step)
			}
		}
	}

	if b.Peaks() != 0 {
		t.Fatalf("Peaks() = %d after the peak was popped, want 0", b.Peaks())
	}
}

func TestPeakAgeAtExitEqualsLookahead(t *testing.T) {
	const length = 6
	b := NewBuffer(length)

	b.Push(1.5)
	b.Pop()
	for range length {
		b.Push(0)
		if b.At(0).Over() {
			if got := b.Peak(0).Age; got != length {
				t.Fatalf("age when leaving = %d, want %d", got, length)
			}
			if pos := b.Position(b.Peak(0)); pos != 1 {
				t.Fatalf("position when leaving = %v, want 1", pos)
			}
		}
		b.Pop()
	}
}

func TestPosition(t *testing.T) {
	b := NewBuffer(9)
	if got := b.Position(PeakRecord{Age: 0}); got != 0.1 {
		t.Fatalf("Position(age 0) = %v, want 0.1", got)
	}
	if got := NewBuffer(0).Position(PeakRecord{Age: 0}); got != 1 {
		t.Fatalf("zero-length Position = %v, want 1", got)
	}
}

func TestBufferResetReprimes(t *testing.T) {
	b := NewBuffer(3)
	for _, v := range []float64{3, 4, 5} {
		b.Push(v)
		b.Pop()
	}
	b.Reset()

	if b.Peaks() != 0 || b.Len() != 3 {
		t.Fatalf("after Reset: Peaks()=%d Len()=%d", b.Peaks(), b.Len())
	}
	for range 3 {
		b.Push(0)
		if got := b.Pop().Amplitude; got != 0 {
			t.Fatalf("stale sample %v leaked through Reset", got)
		}
	}
}
