package lookahead

type peakEntry struct {
	levelDB float64
	born    uint64 // buffer clock at push time
}

// peakQueue is a fixed-capacity FIFO of peak entries. Entries leave in the
// same order as their samples leave the buffer.
type peakQueue struct {
	entries []peakEntry
	head    int
	size    int
}

func newPeakQueue(capacity int) peakQueue {
	return peakQueue{entries: make([]peakEntry, capacity)}
}

func (q *peakQueue) reset() {
	q.head = 0
	q.size = 0
}

func (q *peakQueue) push(e peakEntry) {
	idx := q.head + q.size
	if idx >= len(q.entries) {
		idx -= len(q.entries)
	}
	q.entries[idx] = e
	q.size++
}

func (q *peakQueue) pop() {
	if q.size == 0 {
		return
	}
	q.head++
	if q.head == len(q.entries) {
		q.head = 0
	}
	q.size--
}

func (q *peakQueue) at(i int) peakEntry {
	idx := q.head + i
	if idx >= len(q.entries) {
		idx -= len(q.entries)
	}
	return q.entries[idx]
}
