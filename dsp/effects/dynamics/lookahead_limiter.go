package dynamics

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/easing"
	"github.com/cwbudde/limit2zero/dsp/lookahead"
)

const (
	defaultChannels = 2

	// lengthEpsilon absorbs rounding in ms to sample conversion before
	// rounding up to whole samples.
	lengthEpsilon = 1e-9
)

// ChannelMetrics holds metering information since the last ResetMetrics.
type ChannelMetrics struct {
	InputPeakDB  float64 // after drive
	OutputPeakDB float64
	EnvelopeDB   float64 // deepest reduction, <= 0
}

type meter struct {
	inPeak   float64
	outPeak  float64
	envelope float64
}

// LimiterOption configures a LookaheadLimiter at construction.
type LimiterOption func(*limiterOptions)

type limiterOptions struct {
	channels  int
	search    string
	logger    *slog.Logger
	onLatency func(samples int)
}

// WithChannels sets the initial channel count. Non-positive values are
// ignored.
func WithChannels(n int) LimiterOption {
	return func(o *limiterOptions) {
		if n > 0 {
			o.channels = n
		}
	}
}

// WithPeakSearch selects a registered peak search strategy by name.
// An empty name picks the best strategy for the running CPU.
func WithPeakSearch(name string) LimiterOption {
	return func(o *limiterOptions) { o.search = name }
}

// WithLogger sets the logger used for configuration events.
func WithLogger(logger *slog.Logger) LimiterOption {
	return func(o *limiterOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLatencyCallback registers fn to be called with the reported latency
// whenever it changes, including once at construction.
func WithLatencyCallback(fn func(samples int)) LimiterOption {
	return func(o *limiterOptions) { o.onLatency = fn }
}

// LookaheadLimiter is a brickwall limiter with a delayed program path.
//
// Each channel keeps a lookahead buffer of driven input. The strongest
// pending peak, weighted by how close it is to leaving the buffer, drives a
// shaped attack; the envelope then holds and releases along a shaped curve.
// A per-sample clamp guarantees the delayed output never exceeds 0 dBFS
// before trim. Channel envelopes can be linked toward the deepest one.
//
// This implementation is single-threaded and not thread-safe. Parameter
// changes must happen between blocks on the processing goroutine.
type LookaheadLimiter struct {
	sampleRate float64
	params     Params

	search    lookahead.PeakSearch
	logger    *slog.Logger
	onLatency func(samples int)

	channels     []*channel
	lookaheadLen int
	latency      int

	attackCurve  easing.Envelope
	releaseCurve easing.Envelope
	timing       timing

	driveGain      float64
	compensationDB float64

	frame     []float64
	envelopes []float64
	applied   []float64
	meters    []meter
}

// NewLookaheadLimiter creates a limiter with DefaultParams.
func NewLookaheadLimiter(sampleRate float64, opts ...LimiterOption) (*LookaheadLimiter, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("lookahead limiter %w", err)
	}

	o := limiterOptions{
		channels: defaultChannels,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	search, err := lookahead.SearchByName(o.search)
	if err != nil {
		return nil, fmt.Errorf("lookahead limiter: %w", err)
	}

	l := &LookaheadLimiter{
		sampleRate: sampleRate,
		search:     search,
		logger:     o.logger,
		onLatency:  o.onLatency,
		latency:    -1,
	}

	params := DefaultParams()
	l.applyParams(params)
	l.rebuild(o.channels, lookaheadLength(params.LookaheadMs, sampleRate))

	return l, nil
}

// SetParams validates and applies p. A lookahead change reprimes every
// channel; otherwise envelope state is preserved.
func (l *LookaheadLimiter) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	l.applyParams(p)

	if n := lookaheadLength(p.LookaheadMs, l.sampleRate); n != l.lookaheadLen {
		l.rebuild(len(l.channels), n)
	}

	return nil
}

// Params returns the active configuration.
func (l *LookaheadLimiter) Params() Params { return l.params }

// SetSampleRate updates sample rate and all sample-based lengths.
func (l *LookaheadLimiter) SetSampleRate(sr float64) error {
	if err := validateSampleRate(sr); err != nil {
		return fmt.Errorf("lookahead limiter %w", err)
	}

	l.sampleRate = sr
	l.applyParams(l.params)

	if n := lookaheadLength(l.params.LookaheadMs, sr); n != l.lookaheadLen {
		l.rebuild(len(l.channels), n)
	}

	return nil
}

// SampleRate returns sample rate in Hz.
func (l *LookaheadLimiter) SampleRate() float64 { return l.sampleRate }

// PeakSearch returns the name of the active peak search strategy.
func (l *LookaheadLimiter) PeakSearch() string { return l.search.Name() }

// Channels returns the current channel count.
func (l *LookaheadLimiter) Channels() int { return len(l.channels) }

// LookaheadSamples returns the lookahead buffer length in samples.
func (l *LookaheadLimiter) LookaheadSamples() int { return l.lookaheadLen }

// Latency returns the latency reported to hosts: half the lookahead,
// rounded up.
func (l *LookaheadLimiter) Latency() int { return l.latency }

// Envelope returns the current reduction in dB of channel ch. Out of range
// indices are clamped.
func (l *LookaheadLimiter) Envelope(ch int) float64 {
	return l.channels[l.channelIndex(ch)].envelope
}

// State returns the envelope phase of channel ch. Out of range indices are
// clamped.
func (l *LookaheadLimiter) State(ch int) EnvelopeState {
	return l.channels[l.channelIndex(ch)].state
}

// Metrics returns metering for channel ch since the last ResetMetrics.
// Out of range indices are clamped.
func (l *LookaheadLimiter) Metrics(ch int) ChannelMetrics {
	m := l.meters[l.channelIndex(ch)]
	return ChannelMetrics{
		InputPeakDB:  core.GainToDB(m.inPeak),
		OutputPeakDB: core.GainToDB(m.outPeak),
		EnvelopeDB:   m.envelope,
	}
}

// ResetMetrics clears all meters.
func (l *LookaheadLimiter) ResetMetrics() {
	for i := range l.meters {
		l.meters[i] = meter{}
	}
}

// Reset reprimes all buffers with silence and returns every envelope to
// StageOff. Configuration is unchanged.
func (l *LookaheadLimiter) Reset() {
	for _, ch := range l.channels {
		ch.reset()
	}
	l.ResetMetrics()
}

// ProcessBlock processes block in place, one slice per channel. A block
// with a different channel count rebuilds the engine first. Channels are
// processed up to the shortest slice.
func (l *LookaheadLimiter) ProcessBlock(block [][]float64) {
	if len(block) == 0 {
		return
	}

	if len(block) != len(l.channels) {
		l.rebuild(len(block), l.lookaheadLen)
	}

	frames := len(block[0])
	for _, samples := range block[1:] {
		frames = min(frames, len(samples))
	}
	if frames == 0 {
		return
	}

	for c, samples := range block {
		s := samples[:frames]
		if l.driveGain != 1 {
			vecmath.ScaleBlockInPlace(s, l.driveGain)
		}
		l.meters[c].inPeak = max(l.meters[c].inPeak, vecmath.MaxAbs(s))
	}

	for i := range frames {
		for c := range block {
			l.frame[c] = block[c][i]
		}

		l.step(l.frame)

		for c := range block {
			block[c][i] = l.frame[c]
		}
	}

	for c, samples := range block {
		l.meters[c].outPeak = max(l.meters[c].outPeak, vecmath.MaxAbs(samples[:frames]))
	}
}

// ProcessSample processes one frame in place, one value per channel.
// Frames with a different channel count rebuild the engine first.
func (l *LookaheadLimiter) ProcessSample(frame []float64) {
	if len(frame) == 0 {
		return
	}

	if len(frame) != len(l.channels) {
		l.rebuild(len(frame), l.lookaheadLen)
	}

	for c := range frame {
		frame[c] *= l.driveGain
		l.meters[c].inPeak = max(l.meters[c].inPeak, math.Abs(frame[c]))
	}

	l.step(frame)

	for c := range frame {
		l.meters[c].outPeak = max(l.meters[c].outPeak, math.Abs(frame[c]))
	}
}

// step runs one driven frame through every channel, the stereo linker and
// the gain stage.
func (l *LookaheadLimiter) step(frame []float64) {
	tm := &l.timing
	stride := l.params.LookaheadAccuracy

	for c, ch := range l.channels {
		ch.buf.Push(frame[c])
		ch.tick(tm)
		ch.attack(tm, l.search, stride)

		delayed := ch.buf.Pop()
		ch.clamp(tm, delayed)

		frame[c] = delayed.Amplitude
		l.envelopes[c] = ch.envelope
		if ch.envelope < l.meters[c].envelope {
			l.meters[c].envelope = ch.envelope
		}
	}

	StereoLink(l.applied, l.envelopes, l.params.StereoLink)

	for c := range frame {
		frame[c] *= core.DBToLinear(GainDB(l.applied[c], l.params.TrimDB, l.compensationDB))
	}
}

// applyParams stores p and derives everything that does not need
// reallocation.
func (l *LookaheadLimiter) applyParams(p Params) {
	l.params = p

	l.attackCurve = easing.BuildEnvelope(p.AttackShape)
	l.releaseCurve = easing.BuildEnvelope(p.ReleaseShape)

	l.timing = timing{
		holdLen:      core.MsToSamples(p.HoldMs, l.sampleRate),
		releaseLen:   core.MsToSamples(p.ReleaseMs, l.sampleRate),
		holdScale:    holdScale(p.HoldAmount),
		attackAmount: p.AttackAmount,
		attack:       &l.attackCurve,
		release:      &l.releaseCurve,
	}

	l.driveGain = core.DBToLinear(p.DriveDB)
	l.compensationDB = CompensationDB(p.DriveDB, p.GainCompensation)

	for _, ch := range l.channels {
		if ch.scanPhase >= p.LookaheadAccuracy {
			ch.scanPhase = 0
		}
	}
}

// rebuild replaces all per-channel state. Nothing is mutated until the new
// state is complete.
func (l *LookaheadLimiter) rebuild(channels, lookaheadLen int) {
	if channels < 1 {
		channels = 1
	}

	next := make([]*channel, channels)
	for i := range next {
		next[i] = newChannel(lookaheadLen)
	}

	frame := make([]float64, channels)
	envelopes := make([]float64, channels)
	applied := make([]float64, channels)
	meters := make([]meter, channels)

	l.channels = next
	l.lookaheadLen = lookaheadLen
	l.frame = frame
	l.envelopes = envelopes
	l.applied = applied
	l.meters = meters

	l.logger.Debug("lookahead limiter rebuilt",
		"channels", channels,
		"lookahead_samples", lookaheadLen,
		"peak_search", l.search.Name())

	l.reportLatency((lookaheadLen + 1) / 2)
}

func (l *LookaheadLimiter) reportLatency(samples int) {
	if samples == l.latency {
		return
	}

	l.latency = samples
	l.logger.Debug("lookahead limiter latency changed", "latency_samples", samples)

	if l.onLatency != nil {
		l.onLatency(samples)
	}
}

func (l *LookaheadLimiter) channelIndex(ch int) int {
	if ch < 0 {
		return 0
	}
	if ch >= len(l.channels) {
		return len(l.channels) - 1
	}
	return ch
}

// lookaheadLength rounds the lookahead up to whole samples.
func lookaheadLength(ms, sampleRate float64) int {
	n := int(math.Ceil(core.MsToSamples(ms, sampleRate) - lengthEpsilon))
	return max(n, 0)
}
