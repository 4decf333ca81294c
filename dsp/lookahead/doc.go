// Package lookahead implements the per-channel delay line of a lookahead
// limiter together with the tracker that follows over-threshold samples
// while they travel through it.
//
// A Buffer holds exactly Lookahead() samples between processed frames: every
// Push is paired with one Pop, so a sample leaves the buffer Lookahead()
// frames after it entered. Samples whose level is above 0 dBFS are recorded
// as peaks, in FIFO order, and age by one with every push.
//
// PeakSearch selects the peak that most urgently needs gain reduction. Two
// interchangeable strategies are registered: a scalar walk over the peak
// records and a lane-batched scan over the buffered levels. They select the
// same peak for every buffer state.
package lookahead
