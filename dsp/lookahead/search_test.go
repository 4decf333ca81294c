package lookahead

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/limit2zero/dsp/core"
)

func TestSearchNoPeaks(t *testing.T) {
	b := NewBuffer(8)
	b.Push(0.9)

	for _, s := range []PeakSearch{ScalarSearch{}, BatchedSearch{}} {
		if _, ok := s.Strongest(b); ok {
			t.Fatalf("%s found a peak in a quiet buffer", s.Name())
		}
	}
}

func TestSearchPrefersLoudAndOld(t *testing.T) {
	b := NewBuffer(8)
	// Oldest first: +6 dB at age 3, +12 dB at age 1, +20 dB at age 0.
	for _, v := range []float64{2, 0.1, 4, 10} {
		b.Push(v)
	}

	for _, s := range []PeakSearch{ScalarSearch{}, BatchedSearch{}} {
		p, ok := s.Strongest(b)
		if !ok {
			t.Fatalf("%s found no peak", s.Name())
		}
		// factors: 3*6.02=18.06, 1*12.04=12.04, 0*20=0
		if p.Age != 3 {
			t.Fatalf("%s selected %+v, want the age-3 peak", s.Name(), p)
		}
	}
}

func TestSearchTieGoesToOlderPeak(t *testing.T) {
	b := NewBuffer(4)
	// Same level at age 0 only: factor 0, still selectable.
	b.Push(2)
	for _, s := range []PeakSearch{ScalarSearch{}, BatchedSearch{}} {
		p, ok := s.Strongest(b)
		if !ok || p.Age != 0 {
			t.Fatalf("%s: %+v, %v", s.Name(), p, ok)
		}
	}

	// Equal factors: 2 dB at age 2 and 4 dB at age 1.
	b = bufferFromLevels(2, 4, core.SilenceDB)
	for _, s := range []PeakSearch{ScalarSearch{}, BatchedSearch{}} {
		p, _ := s.Strongest(b)
		if p.Age != 2 || p.LevelDB != 2 {
			t.Fatalf("%s: tie resolved to %+v, want the age-2 peak", s.Name(), p)
		}
	}
}

// bufferFromLevels builds a full buffer holding exactly the given levels,
// oldest first.
func bufferFromLevels(levels ...float64) *Buffer {
	b := NewBuffer(len(levels) - 1)
	b.head = 0
	b.size = len(levels)
	b.clock = uint64(len(levels))
	b.peaks.reset()

	for i, lv := range levels {
		b.levels[i] = lv
		b.amps[i] = core.DBToLinear(lv)
		if lv > 0 {
			b.peaks.push(peakEntry{levelDB: lv, born: uint64(i + 1)})
		}
	}

	return b
}

func TestSearchStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, length := range []int{0, 1, 3, 4, 5, 17, 64} {
		b := NewBuffer(length)
		for step := range 2000 {
			v := (rng.Float64()*2 - 1) * 1.6
			if rng.Intn(5) == 0 {
				v = 0
			}
			b.Push(v)

			sp, sok := ScalarSearch{}.Strongest(b)
			bp, bok := BatchedSearch{}.Strongest(b)
			if sok != bok || sp != bp {
				t.Fatalf("length %d step %d: scalar %+v/%v, batched %+v/%v",
					length, step, sp, sok, bp, bok)
			}

			b.Pop()
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	buf := NewBuffer(480)
	rng := rand.New(rand.NewSource(1))
	for range 480 {
		buf.Push((rng.Float64()*2 - 1) * 1.3)
		buf.Pop()
	}
	buf.Push(1.1)

	for _, s := range []PeakSearch{ScalarSearch{}, BatchedSearch{}} {
		b.Run(s.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				s.Strongest(buf)
			}
		})
	}
}
