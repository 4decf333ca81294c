package buffer

// Block is a planar multi-channel sample block. All channels share one
// backing array and always have the same length.
type Block struct {
	data     []float64
	channels [][]float64
	frames   int
}

// New returns a zero-filled block. Channel counts below 1 are raised to 1
// and negative frame counts are treated as zero.
func New(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)
	return b
}

// Channels returns the channel count.
func (b *Block) Channels() int { return len(b.channels) }

// Frames returns the number of frames per channel.
func (b *Block) Frames() int { return b.frames }

// Channel returns the samples of channel i. Out of range indices are
// clamped to the nearest valid channel.
func (b *Block) Channel(i int) []float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(b.channels) {
		i = len(b.channels) - 1
	}
	return b.channels[i]
}

// Samples returns one slice per channel, suitable for in-place processing.
func (b *Block) Samples() [][]float64 { return b.channels }

// Resize changes the geometry, reusing the backing array when it is large
// enough. Contents are zeroed.
func (b *Block) Resize(channels, frames int) {
	if channels < 1 {
		channels = 1
	}
	if frames < 0 {
		frames = 0
	}

	n := channels * frames
	if n <= cap(b.data) {
		b.data = b.data[:n]
	} else {
		b.data = make([]float64, n)
	}

	if channels <= cap(b.channels) {
		b.channels = b.channels[:channels]
	} else {
		b.channels = make([][]float64, channels)
	}
	for c := range b.channels {
		b.channels[c] = b.data[c*frames : (c+1)*frames : (c+1)*frames]
	}

	b.frames = frames
	b.Zero()
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// ReadPlanar32 copies host channels into b. Missing channels or frames are
// filled with silence; extra ones are ignored.
func (b *Block) ReadPlanar32(src [][]float32) {
	for c, dst := range b.channels {
		var in []float32
		if c < len(src) {
			in = src[c]
		}

		n := min(len(in), len(dst))
		for i := range n {
			dst[i] = float64(in[i])
		}
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}
}

// WritePlanar32 copies b into host channels. Host channels beyond the
// block's channel count receive the last channel.
func (b *Block) WritePlanar32(dst [][]float32) {
	for c, out := range dst {
		src := b.Channel(c)
		n := min(len(out), len(src))
		for i := range n {
			out[i] = float32(src[i])
		}
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
	}
}

// ReadInterleaved32 deinterleaves src into b. Frames missing from src are
// filled with silence.
func (b *Block) ReadInterleaved32(src []float32) {
	channels := len(b.channels)
	for c, dst := range b.channels {
		for i := range dst {
			idx := i*channels + c
			if idx < len(src) {
				dst[i] = float64(src[idx])
			} else {
				dst[i] = 0
			}
		}
	}
}

// WriteInterleaved32 interleaves b into dst and returns the number of
// frames written.
func (b *Block) WriteInterleaved32(dst []float32) int {
	channels := len(b.channels)
	frames := min(b.frames, len(dst)/channels)
	for c, src := range b.channels {
		for i := range frames {
			dst[i*channels+c] = float32(src[i])
		}
	}
	return frames
}
