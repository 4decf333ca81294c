package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/farcloser/primordium/fault"
	"github.com/gordonklaus/portaudio"
	"github.com/urfave/cli/v3"

	"github.com/cwbudde/limit2zero/dsp/core"
	"github.com/cwbudde/limit2zero/dsp/effects/dynamics"
)

func liveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{Name: "sample-rate", Aliases: []string{"s"}, Usage: "Sample rate in Hz", Value: 48000},
		&cli.IntFlag{Name: "block-size", Aliases: []string{"b"}, Usage: "Frames per host buffer", Value: 256},
		&cli.IntFlag{Name: "channels", Aliases: []string{"c"}, Usage: "Number of channels", Value: 2},
	}

	return &cli.Command{
		Name:  "live",
		Usage: "Limit the default input device to the default output device",
		Flags: append(flags, paramFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, err := paramsFromFlags(cmd)
			if err != nil {
				return err
			}

			cfg := core.ApplyProcessorOptions(
				core.WithSampleRate(float64(cmd.Int("sample-rate"))),
				core.WithBlockSize(cmd.Int("block-size")),
				core.WithChannels(cmd.Int("channels")),
			)
			if err := cfg.Validate(); err != nil {
				return err
			}

			h, err := newHost(cfg, p)
			if err != nil {
				return err
			}

			if err := initAudio(); err != nil {
				return err
			}
			defer portaudio.Terminate()

			stream, err := portaudio.OpenDefaultStream(cfg.Channels, cfg.Channels, cfg.SampleRate, cfg.BlockSize, h.process)
			if err != nil {
				return fmt.Errorf("%w: open stream: %w", fault.ErrMissingRequirements, err)
			}
			defer stream.Close()

			if err := stream.Start(); err != nil {
				return fmt.Errorf("%w: start stream: %w", fault.ErrMissingRequirements, err)
			}
			defer stream.Stop()

			slog.Info("live", "sample_rate", cfg.SampleRate, "block_size", cfg.BlockSize,
				"block_duration", cfg.BlockDuration(), "channels", cfg.Channels, "peak_search", h.limiter.PeakSearch())

			return console(h, p)
		},
	}
}

// console reads parameter commands until EOF or quit.
func console(h *host, p dynamics.Params) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	current := p
	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}

		next, out, quit := evalLine(current, h.meterLine, line)
		if quit {
			return nil
		}
		if next != current {
			current = next
			h.update(current)
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

const consoleHelp = `set <param> <value>  change a parameter
show                 print all parameters
meter                print latency and the latest meters
help                 print this help
quit                 leave`

// evalLine executes one console line against p. It returns the possibly
// updated params, text to print and whether the console should exit.
func evalLine(p dynamics.Params, meter func() string, line string) (dynamics.Params, string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p, "", false
	}

	switch fields[0] {
	case "set":
		if len(fields) != 3 {
			return p, "usage: set <param> <value>", false
		}
		next, err := applyParam(p, fields[1], fields[2])
		if err != nil {
			return p, err.Error(), false
		}
		return next, "", false
	case "show":
		return p, formatParams(p), false
	case "meter":
		return p, meter(), false
	case "help":
		return p, consoleHelp, false
	case "quit", "exit":
		return p, "", true
	default:
		return p, fmt.Sprintf("unknown command: %s", fields[0]), false
	}
}
