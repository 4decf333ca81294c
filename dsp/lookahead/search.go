package lookahead

// PeakSearch selects the buffered peak with the highest Factor. Ties go to
// the older peak. Implementations must agree for every buffer state.
type PeakSearch interface {
	Name() string
	Strongest(b *Buffer) (PeakRecord, bool)
}

// ScalarSearch walks the peak records.
type ScalarSearch struct{}

// Name implements PeakSearch.
func (ScalarSearch) Name() string { return "scalar" }

// Strongest implements PeakSearch.
func (ScalarSearch) Strongest(b *Buffer) (PeakRecord, bool) {
	n := b.Peaks()
	if n == 0 {
		return PeakRecord{}, false
	}

	best := b.Peak(0)
	bestFactor := best.Factor()
	for i := 1; i < n; i++ {
		p := b.Peak(i)
		if f := p.Factor(); f > bestFactor {
			best, bestFactor = p, f
		}
	}

	return best, true
}

// searchLanes is the batch width of BatchedSearch.
const searchLanes = 4

// BatchedSearch scans the buffered levels in fixed-width batches, keeping one
// running maximum per lane, and reduces the lanes at the end.
type BatchedSearch struct{}

// Name implements PeakSearch.
func (BatchedSearch) Name() string { return "batched" }

// Strongest implements PeakSearch.
func (BatchedSearch) Strongest(b *Buffer) (PeakRecord, bool) {
	if b.Peaks() == 0 {
		return PeakRecord{}, false
	}

	var lanes laneState
	for l := range lanes.factor {
		lanes.factor[l] = -1
		lanes.pos[l] = -1
	}

	first, second := b.levelSegments()
	lanes.scan(first, 0, b.size)
	lanes.scan(second, len(first), b.size)

	pos := -1
	factor := -1.0
	for l := range lanes.factor {
		p := lanes.pos[l]
		if p < 0 {
			continue
		}
		if f := lanes.factor[l]; f > factor || (f == factor && p < pos) {
			pos, factor = p, f
		}
	}

	if pos < 0 {
		return PeakRecord{}, false
	}

	return PeakRecord{LevelDB: b.At(pos).LevelDB, Age: b.size - 1 - pos}, true
}

type laneState struct {
	factor [searchLanes]float64
	pos    [searchLanes]int
}

// scan visits levels in increasing position order, so a strict comparison
// keeps the oldest peak within each lane.
func (s *laneState) scan(levels []float64, offset, size int) {
	last := size - 1 - offset

	i := 0
	for ; i+searchLanes <= len(levels); i += searchLanes {
		v0, v1, v2, v3 := levels[i], levels[i+1], levels[i+2], levels[i+3]
		if v0 <= 0 && v1 <= 0 && v2 <= 0 && v3 <= 0 {
			continue
		}

		s.update(0, v0, i, last, offset)
		s.update(1, v1, i+1, last, offset)
		s.update(2, v2, i+2, last, offset)
		s.update(3, v3, i+3, last, offset)
	}

	for ; i < len(levels); i++ {
		s.update(i%searchLanes, levels[i], i, last, offset)
	}
}

func (s *laneState) update(lane int, level float64, i, last, offset int) {
	if level <= 0 {
		return
	}
	if f := float64(last-i) * level; f > s.factor[lane] {
		s.factor[lane] = f
		s.pos[lane] = offset + i
	}
}
