package dynamics

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() = %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Params)
		wantErr string
	}{
		{"max drive", func(p *Params) { p.DriveDB = 60 }, ""},
		{"drive negative", func(p *Params) { p.DriveDB = -1 }, "drive"},
		{"trim positive", func(p *Params) { p.TrimDB = 0.5 }, "trim"},
		{"trim low", func(p *Params) { p.TrimDB = -1.5 }, "trim"},
		{"lookahead long", func(p *Params) { p.LookaheadMs = 51 }, "lookahead"},
		{"lookahead nan", func(p *Params) { p.LookaheadMs = math.NaN() }, "lookahead"},
		{"accuracy zero", func(p *Params) { p.LookaheadAccuracy = 0 }, "lookahead accuracy"},
		{"accuracy high", func(p *Params) { p.LookaheadAccuracy = 17 }, "lookahead accuracy"},
		{"attack amount", func(p *Params) { p.AttackAmount = 1.1 }, "attack amount"},
		{"hold long", func(p *Params) { p.HoldMs = 1001 }, "hold"},
		{"hold amount", func(p *Params) { p.HoldAmount = -0.1 }, "hold amount"},
		{"release inf", func(p *Params) { p.ReleaseMs = math.Inf(1) }, "release"},
		{"stereo link", func(p *Params) { p.StereoLink = 2 }, "stereo link"},
		{"attack shape", func(p *Params) { p.AttackShape.PowerIn = 0 }, "attack shape power in"},
		{"release shape", func(p *Params) { p.ReleaseShape.Center = 3 }, "release shape center"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)

			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
