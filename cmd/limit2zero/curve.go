package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/cwbudde/limit2zero/dsp/easing"
)

const barWidth = 40

var (
	errUnknownKind   = errors.New("kind must be attack or release")
	errUnknownFormat = errors.New("format must be console or json")
)

func curveCommand() *cli.Command {
	defaults := easing.DefaultShape()

	return &cli.Command{
		Name:  "curve",
		Usage: "Print sampled points of an attack or release curve",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Curve kind: attack, release", Value: "release"},
			&cli.IntFlag{Name: "resolution", Aliases: []string{"r"}, Usage: "Number of segments", Value: 16},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: console, json", Value: "console"},
			&cli.FloatFlag{Name: "linearity", Usage: "1 = straight line", Value: defaults.Linearity},
			&cli.FloatFlag{Name: "center", Usage: "S-curve split point", Value: defaults.Center},
			&cli.FloatFlag{Name: "smoothing", Usage: "Crossfade width", Value: defaults.Smoothing},
			&cli.FloatFlag{Name: "polarity-in", Value: defaults.PolarityIn},
			&cli.FloatFlag{Name: "polarity-out", Value: defaults.PolarityOut},
			&cli.FloatFlag{Name: "power-in", Value: defaults.PowerIn},
			&cli.FloatFlag{Name: "power-out", Value: defaults.PowerOut},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			shape := defaults
			shape.Linearity = cmd.Float("linearity")
			shape.Center = cmd.Float("center")
			shape.Smoothing = cmd.Float("smoothing")
			shape.PolarityIn = cmd.Float("polarity-in")
			shape.PolarityOut = cmd.Float("polarity-out")
			shape.PowerIn = cmd.Float("power-in")
			shape.PowerOut = cmd.Float("power-out")

			if err := shape.Validate(); err != nil {
				return err
			}

			pts, err := curvePoints(cmd.String("kind"), shape, cmd.Int("resolution"))
			if err != nil {
				return err
			}

			return renderCurve(os.Stdout, cmd.String("kind"), pts, cmd.String("format"))
		},
	}
}

func curvePoints(kind string, shape easing.Shape, resolution int) ([]easing.Point, error) {
	curve := easing.BuildEnvelope(shape)

	switch kind {
	case "attack":
		return easing.AttackPoints(curve, resolution), nil
	case "release":
		return easing.Points(curve, resolution), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
	}
}

type curveReport struct {
	Kind   string       `json:"kind"`
	Points []curvePoint `json:"points"`
}

type curvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func renderCurve(w io.Writer, kind string, pts []easing.Point, format string) error {
	switch format {
	case "json":
		report := curveReport{Kind: kind, Points: make([]curvePoint, len(pts))}
		for i, p := range pts {
			report.Points[i] = curvePoint{X: p.X, Y: p.Y}
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case "console":
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))
		axis := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))

		var sb strings.Builder
		sb.WriteString(title.Render(kind+" curve") + "\n")
		for _, p := range pts {
			n := int(p.Y*barWidth + 0.5)
			n = max(0, min(barWidth, n))
			fmt.Fprintf(&sb, "%s %s %s\n",
				axis.Render(fmt.Sprintf("%5.3f", p.X)),
				fmt.Sprintf("%5.3f", p.Y),
				bar.Render(strings.Repeat("█", n)))
		}

		_, err := io.WriteString(w, sb.String())
		return err

	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}
