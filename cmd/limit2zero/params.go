package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/limit2zero/dsp/effects/dynamics"
)

var errUnknownParam = errors.New("unknown parameter")

// param binds one numeric field of dynamics.Params to a flag and console
// name.
type param struct {
	name  string
	usage string
	get   func(*dynamics.Params) float64
	set   func(*dynamics.Params, float64)
}

var params = []param{
	{
		"drive", "Input drive in dB",
		func(p *dynamics.Params) float64 { return p.DriveDB },
		func(p *dynamics.Params, v float64) { p.DriveDB = v },
	},
	{
		"trim", "Output trim in dB (-1..0)",
		func(p *dynamics.Params) float64 { return p.TrimDB },
		func(p *dynamics.Params, v float64) { p.TrimDB = v },
	},
	{
		"lookahead", "Lookahead in ms",
		func(p *dynamics.Params) float64 { return p.LookaheadMs },
		func(p *dynamics.Params, v float64) { p.LookaheadMs = v },
	},
	{
		"accuracy", "Peak rescan stride in samples (1..16)",
		func(p *dynamics.Params) float64 { return float64(p.LookaheadAccuracy) },
		func(p *dynamics.Params, v float64) { p.LookaheadAccuracy = int(v) },
	},
	{
		"attack-amount", "Attack depth (0..1)",
		func(p *dynamics.Params) float64 { return p.AttackAmount },
		func(p *dynamics.Params, v float64) { p.AttackAmount = v },
	},
	{
		"attack-linearity", "Attack curve linearity (0..1)",
		func(p *dynamics.Params) float64 { return p.AttackShape.Linearity },
		func(p *dynamics.Params, v float64) { p.AttackShape.Linearity = v },
	},
	{
		"attack-center", "Attack curve center (0..1)",
		func(p *dynamics.Params) float64 { return p.AttackShape.Center },
		func(p *dynamics.Params, v float64) { p.AttackShape.Center = v },
	},
	{
		"hold", "Hold in ms",
		func(p *dynamics.Params) float64 { return p.HoldMs },
		func(p *dynamics.Params, v float64) { p.HoldMs = v },
	},
	{
		"hold-amount", "Hold plateau depth (0..1)",
		func(p *dynamics.Params) float64 { return p.HoldAmount },
		func(p *dynamics.Params, v float64) { p.HoldAmount = v },
	},
	{
		"release", "Release in ms",
		func(p *dynamics.Params) float64 { return p.ReleaseMs },
		func(p *dynamics.Params, v float64) { p.ReleaseMs = v },
	},
	{
		"release-linearity", "Release curve linearity (0..1)",
		func(p *dynamics.Params) float64 { return p.ReleaseShape.Linearity },
		func(p *dynamics.Params, v float64) { p.ReleaseShape.Linearity = v },
	},
	{
		"release-center", "Release curve center (0..1)",
		func(p *dynamics.Params) float64 { return p.ReleaseShape.Center },
		func(p *dynamics.Params, v float64) { p.ReleaseShape.Center = v },
	},
	{
		"stereo-link", "Stereo link amount (0..1)",
		func(p *dynamics.Params) float64 { return p.StereoLink },
		func(p *dynamics.Params, v float64) { p.StereoLink = v },
	},
	{
		"gain-compensation", "Offset half of the drive (0 or 1)",
		func(p *dynamics.Params) float64 {
			if p.GainCompensation {
				return 1
			}
			return 0
		},
		func(p *dynamics.Params, v float64) { p.GainCompensation = v != 0 },
	},
}

func lookupParam(name string) (param, error) {
	for _, p := range params {
		if p.name == name {
			return p, nil
		}
	}
	return param{}, fmt.Errorf("%w: %q", errUnknownParam, name)
}

// paramFlags returns one flag per parameter, defaulting to DefaultParams.
func paramFlags() []cli.Flag {
	defaults := dynamics.DefaultParams()

	flags := make([]cli.Flag, 0, len(params))
	for _, p := range params {
		flags = append(flags, &cli.FloatFlag{
			Name:  p.name,
			Usage: p.usage,
			Value: p.get(&defaults),
		})
	}
	return flags
}

// paramsFromFlags builds validated limiter params from the command line.
func paramsFromFlags(cmd *cli.Command) (dynamics.Params, error) {
	p := dynamics.DefaultParams()
	for _, f := range params {
		f.set(&p, cmd.Float(f.name))
	}

	if err := p.Validate(); err != nil {
		return dynamics.Params{}, err
	}
	return p, nil
}

// applyParam parses value and returns p with the named field set. On error
// p is returned unchanged.
func applyParam(p dynamics.Params, name, value string) (dynamics.Params, error) {
	f, err := lookupParam(name)
	if err != nil {
		return p, err
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return p, fmt.Errorf("%s: %w", name, err)
	}

	next := p
	f.set(&next, v)
	if err := next.Validate(); err != nil {
		return p, err
	}
	return next, nil
}

// formatParams renders every parameter as name=value, sorted by name.
func formatParams(p dynamics.Params) string {
	lines := make([]string, 0, len(params))
	for _, f := range params {
		lines = append(lines, fmt.Sprintf("%-18s %g", f.name, f.get(&p)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
