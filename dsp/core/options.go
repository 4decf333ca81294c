package core

import (
	"fmt"
	"time"
)

// Host limits accepted by ProcessorConfig.Validate.
const (
	MinSampleRate = 8000.0
	MaxSampleRate = 384000.0
	MaxChannels   = 8
)

// ProcessorConfig holds the stream settings a host negotiates with the
// audio device: rate, frames per callback and channel count.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns a stereo 48 kHz stream with short callbacks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  256,
		Channels:   2,
	}
}

// WithSampleRate sets the stream rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the frames per callback. Non-positive values are ignored.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count. Non-positive values are ignored.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies opts on top of DefaultProcessorConfig.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first setting outside the supported host range.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate must be in [%g, %g]: %g", MinSampleRate, MaxSampleRate, c.SampleRate)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("block size must be positive: %d", c.BlockSize)
	}
	if c.Channels < 1 || c.Channels > MaxChannels {
		return fmt.Errorf("channels must be in [1, %d]: %d", MaxChannels, c.Channels)
	}
	return nil
}

// BlockDuration is the wall-clock length of one callback buffer.
func (c ProcessorConfig) BlockDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.BlockSize) / c.SampleRate * float64(time.Second))
}
