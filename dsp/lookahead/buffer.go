package lookahead

import "github.com/cwbudde/limit2zero/dsp/core"

// Sample is one buffered input sample and its level.
type Sample struct {
	Amplitude float64
	LevelDB   float64 // 20*log10(|Amplitude|), floored at core.SilenceDB
}

// NewSample measures amplitude.
func NewSample(amplitude float64) Sample {
	return Sample{Amplitude: amplitude, LevelDB: core.GainToDB(amplitude)}
}

// Over reports whether the sample exceeds the 0 dBFS ceiling.
func (s Sample) Over() bool { return s.LevelDB > 0 }

// PeakRecord describes a buffered over-threshold sample.
type PeakRecord struct {
	LevelDB float64 // > 0
	Age     int     // frames since the sample was pushed
}

// Factor weighs loudness against urgency: loud peaks close to leaving the
// buffer score highest.
func (p PeakRecord) Factor() float64 {
	return float64(p.Age) * p.LevelDB
}

// Buffer is a fixed-length FIFO of samples primed with silence.
//
// Amplitudes and levels are stored in separate rings so searches can scan
// levels contiguously.
type Buffer struct {
	amps   []float64
	levels []float64
	head   int // index of the oldest sample
	size   int
	length int

	clock uint64 // number of pushes since priming
	peaks peakQueue
}

// NewBuffer returns a buffer holding length frames of silence.
// Negative lengths are treated as zero.
func NewBuffer(length int) *Buffer {
	if length < 0 {
		length = 0
	}

	b := &Buffer{
		amps:   make([]float64, length+1),
		levels: make([]float64, length+1),
		length: length,
		peaks:  newPeakQueue(length + 1),
	}
	b.Reset()

	return b
}

// Reset discards all buffered samples and peaks and reprimes the buffer
// with silence.
func (b *Buffer) Reset() {
	for i := range b.amps {
		b.amps[i] = 0
		b.levels[i] = core.SilenceDB
	}

	b.head = 0
	b.size = b.length
	b.clock = 0
	b.peaks.reset()
}

// Lookahead returns the configured delay in frames.
func (b *Buffer) Lookahead() int { return b.length }

// Len returns the number of buffered samples. Between a Pop and the next
// Push it always equals Lookahead().
func (b *Buffer) Len() int { return b.size }

// Peaks returns the number of live peak records.
func (b *Buffer) Peaks() int { return b.peaks.size }

// Push appends a new sample. If the buffer is already holding an unpopped
// push, the oldest sample is dropped first so the capacity is never exceeded.
func (b *Buffer) Push(amplitude float64) Sample {
	if b.size == len(b.amps) {
		b.Pop()
	}

	s := NewSample(amplitude)
	b.clock++

	idx := b.index(b.size)
	b.amps[idx] = s.Amplitude
	b.levels[idx] = s.LevelDB
	b.size++

	if s.Over() {
		b.peaks.push(peakEntry{levelDB: s.LevelDB, born: b.clock})
	}

	return s
}

// Pop removes and returns the oldest sample. An empty buffer yields silence.
func (b *Buffer) Pop() Sample {
	if b.size == 0 {
		return Sample{LevelDB: core.SilenceDB}
	}

	s := Sample{Amplitude: b.amps[b.head], LevelDB: b.levels[b.head]}
	b.head++
	if b.head == len(b.amps) {
		b.head = 0
	}
	b.size--

	if s.Over() {
		b.peaks.pop()
	}

	return s
}

// At returns the i-th buffered sample, oldest first.
func (b *Buffer) At(i int) Sample {
	idx := b.index(i)
	return Sample{Amplitude: b.amps[idx], LevelDB: b.levels[idx]}
}

// Peak returns the i-th live peak record, oldest first.
func (b *Buffer) Peak(i int) PeakRecord {
	e := b.peaks.at(i)
	return PeakRecord{LevelDB: e.levelDB, Age: int(b.clock - e.born)}
}

// Position maps a peak's age to its normalized progress through the window,
// in (0, 1]. A peak about to leave the buffer is at 1.
func (b *Buffer) Position(p PeakRecord) float64 {
	return float64(p.Age+1) / float64(b.length+1)
}

// levelSegments returns the buffered levels, oldest first, as at most two
// contiguous slices.
func (b *Buffer) levelSegments() (first, second []float64) {
	end := b.head + b.size
	if end <= len(b.levels) {
		return b.levels[b.head:end], nil
	}
	return b.levels[b.head:], b.levels[:end-len(b.levels)]
}

func (b *Buffer) index(i int) int {
	idx := b.head + i
	if idx >= len(b.amps) {
		idx -= len(b.amps)
	}
	return idx
}
