package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/farcloser/primordium/fault"
	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/limit2zero/dsp/buffer"
	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/effects/dynamics"
)

// host runs a limiter on the audio callback goroutine. Parameter updates
// and meter reads cross goroutines only through atomics.
type host struct {
	cfg     core.ProcessorConfig
	limiter *dynamics.LookaheadLimiter
	block   *buffer.Block

	pending atomic.Pointer[dynamics.Params]
	latency atomic.Int64
	meters  []channelMeter
}

type channelMeter struct {
	input     atomic.Uint64 // float64 bits, dBFS
	output    atomic.Uint64
	reduction atomic.Uint64
}

func newHost(cfg core.ProcessorConfig, p dynamics.Params) (*host, error) {
	h := &host{
		cfg:    cfg,
		block:  buffer.New(cfg.Channels, cfg.BlockSize),
		meters: make([]channelMeter, cfg.Channels),
	}

	l, err := dynamics.NewLookaheadLimiter(cfg.SampleRate,
		dynamics.WithChannels(cfg.Channels),
		dynamics.WithLogger(slog.Default()),
		dynamics.WithLatencyCallback(func(samples int) { h.latency.Store(int64(samples)) }),
	)
	if err != nil {
		return nil, err
	}

	if err := l.SetParams(p); err != nil {
		return nil, err
	}

	h.limiter = l
	h.publishMeters()

	return h, nil
}

// update queues p for the next callback.
func (h *host) update(p dynamics.Params) {
	h.pending.Store(&p)
}

// process runs one duplex host buffer through the limiter.
func (h *host) process(in, out [][]float32) {
	frames := 0
	if len(out) > 0 {
		frames = len(out[0])
	}
	if frames != h.block.Frames() {
		h.block.Resize(h.cfg.Channels, frames)
	}

	h.block.ReadPlanar32(in)
	h.render(h.block, out)
}

// render limits blk in place and writes it to the host buffers.
func (h *host) render(blk *buffer.Block, out [][]float32) {
	if p := h.pending.Swap(nil); p != nil {
		if err := h.limiter.SetParams(*p); err != nil {
			slog.Warn("rejected parameters", "error", err)
		}
	}

	h.limiter.ProcessBlock(blk.Samples())
	blk.WritePlanar32(out)

	h.publishMeters()
}

func (h *host) publishMeters() {
	for c := range h.meters {
		m := h.limiter.Metrics(c)
		h.meters[c].input.Store(math.Float64bits(m.InputPeakDB))
		h.meters[c].output.Store(math.Float64bits(m.OutputPeakDB))
		h.meters[c].reduction.Store(math.Float64bits(m.EnvelopeDB))
	}
	h.limiter.ResetMetrics()
}

// meterLine formats the most recent meters.
func (h *host) meterLine() string {
	s := fmt.Sprintf("latency %d samples", h.latency.Load())
	for c := range h.meters {
		s += fmt.Sprintf(" | ch%d in %6.1f out %6.1f gr %6.1f dB", c,
			math.Float64frombits(h.meters[c].input.Load()),
			math.Float64frombits(h.meters[c].output.Load()),
			math.Float64frombits(h.meters[c].reduction.Load()))
	}
	return s
}

func initAudio() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: portaudio: %w", fault.ErrMissingRequirements, err)
	}
	return nil
}
