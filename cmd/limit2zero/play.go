package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/farcloser/primordium/fault"
	"github.com/gordonklaus/portaudio"
	"github.com/urfave/cli/v3"
	"github.com/youpy/go-wav"

	"github.com/cwbudde/limit2zero/dsp/buffer"
	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/effects/dynamics"
)

const queuedBlocks = 8

var (
	errInvalidArgCount = errors.New("expected exactly one argument: WAV file path")
	errChannelCount    = errors.New("only mono and stereo WAV files are supported")
)

func playCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{Name: "block-size", Aliases: []string{"b"}, Usage: "Frames per host buffer", Value: 512},
	}

	return &cli.Command{
		Name:      "play",
		Usage:     "Play a WAV file through the limiter",
		ArgsUsage: "<file.wav>",
		Flags:     append(flags, paramFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			p, err := paramsFromFlags(cmd)
			if err != nil {
				return err
			}

			return play(ctx, cmd.Args().First(), cmd.Int("block-size"), p)
		},
	}
}

// wavSource streams decoded WAV blocks.
type wavSource struct {
	reader     *wav.Reader
	channels   int
	sampleRate float64
}

func openWAV(path string) (*wavSource, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if format.NumChannels < 1 || format.NumChannels > 2 {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %d channels", errChannelCount, format.NumChannels)
	}

	return &wavSource{
		reader:     r,
		channels:   int(format.NumChannels),
		sampleRate: float64(format.SampleRate),
	}, f, nil
}

// next decodes up to frames frames into a block from pool. It returns
// io.EOF once the file is exhausted.
func (s *wavSource) next(pool *buffer.Pool, frames int) (*buffer.Block, error) {
	samples, err := s.reader.ReadSamples(uint32(frames)) //nolint:gosec // positive flag value
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	blk := pool.Get(s.channels, frames)
	for i, sample := range samples {
		for c := range s.channels {
			blk.Channel(c)[i] = s.reader.FloatValue(sample, uint(c)) //nolint:gosec // 0 or 1
		}
	}

	return blk, nil
}

func play(ctx context.Context, path string, blockSize int, p dynamics.Params) error {
	src, f, err := openWAV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(src.sampleRate),
		core.WithBlockSize(blockSize),
		core.WithChannels(src.channels),
	)

	h, err := newHost(cfg, p)
	if err != nil {
		return err
	}

	pool := buffer.NewPool()
	queue := make(chan *buffer.Block, queuedBlocks)
	done := make(chan struct{})
	decodeErr := make(chan error, 1)

	go func() {
		defer close(queue)
		for {
			blk, err := src.next(pool, cfg.BlockSize)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					decodeErr <- err
				}
				return
			}

			select {
			case queue <- blk:
			case <-done:
				pool.Put(blk)
				return
			}
		}
	}()

	finished := make(chan struct{})
	flush := -1 // silent blocks left to push out the lookahead tail
	flushSilence := func(out [][]float32) {
		h.block.Zero()
		h.render(h.block, out)
		flush--
		if flush == 0 {
			close(finished)
		}
	}

	callback := func(out [][]float32) {
		switch {
		case flush == 0:
			silence(out)
			return
		case flush > 0:
			flushSilence(out)
			return
		}

		select {
		case blk, ok := <-queue:
			if !ok {
				flush = max(1, (h.limiter.LookaheadSamples()+cfg.BlockSize-1)/cfg.BlockSize)
				flushSilence(out)
				return
			}
			h.render(blk, out)
			pool.Put(blk)
		default:
			silence(out)
		}
	}

	if err := initAudio(); err != nil {
		close(done)
		return err
	}
	defer portaudio.Terminate()

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.BlockSize, callback)
	if err != nil {
		close(done)
		return fmt.Errorf("%w: open stream: %w", fault.ErrMissingRequirements, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		close(done)
		return fmt.Errorf("%w: start stream: %w", fault.ErrMissingRequirements, err)
	}

	slog.Info("playing", "file", path, "sample_rate", cfg.SampleRate, "channels", cfg.Channels,
		"latency_samples", h.latency.Load())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	select {
	case <-finished:
	case <-ctx.Done():
	}

	close(done)
	if err := stream.Stop(); err != nil {
		return fmt.Errorf("%w: stop stream: %w", fault.ErrMissingRequirements, err)
	}

	fmt.Println(h.meterLine())

	select {
	case err := <-decodeErr:
		return err
	default:
		return nil
	}
}

func silence(out [][]float32) {
	for _, ch := range out {
		for i := range ch {
			ch[i] = 0
		}
	}
}
