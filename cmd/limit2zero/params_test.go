package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/limit2zero/dsp/effects/dynamics"
)

func TestParamTableRoundTrip(t *testing.T) {
	defaults := dynamics.DefaultParams()

	for _, f := range params {
		p := defaults
		f.set(&p, f.get(&defaults))
		if p != defaults {
			t.Fatalf("%s: setting the current value changed params", f.name)
		}

		f.set(&p, f.get(&defaults)+1)
		if p == defaults {
			t.Fatalf("%s: setter does not reach its field", f.name)
		}
	}
}

func TestApplyParam(t *testing.T) {
	p := dynamics.DefaultParams()

	tests := []struct {
		name, value string
		wantErr     bool
		check       func(dynamics.Params) bool
	}{
		{"release", "120", false, func(p dynamics.Params) bool { return p.ReleaseMs == 120 }},
		{"accuracy", "4", false, func(p dynamics.Params) bool { return p.LookaheadAccuracy == 4 }},
		{"gain-compensation", "1", false, func(p dynamics.Params) bool { return p.GainCompensation }},
		{"attack-linearity", "0.25", false, func(p dynamics.Params) bool { return p.AttackShape.Linearity == 0.25 }},
		{"trim", "3", true, nil},
		{"release", "fast", true, nil},
		{"ratio", "4", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			got, err := applyParam(p, tt.name, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyParam() err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != p {
					t.Fatal("failed update must return params unchanged")
				}
				return
			}
			if !tt.check(got) {
				t.Fatalf("applyParam() = %+v", got)
			}
		})
	}
}

func TestLookupParamUnknown(t *testing.T) {
	if _, err := lookupParam("nope"); !errors.Is(err, errUnknownParam) {
		t.Fatalf("lookupParam() err = %v, want errUnknownParam", err)
	}
}

func TestEvalLine(t *testing.T) {
	p := dynamics.DefaultParams()
	meter := func() string { return "meters" }

	next, out, quit := evalLine(p, meter, "set stereo-link 1")
	if quit || out != "" || next.StereoLink != 1 {
		t.Fatalf("set: next=%v out=%q quit=%v", next.StereoLink, out, quit)
	}

	if _, out, _ := evalLine(p, meter, "set stereo-link"); !strings.HasPrefix(out, "usage") {
		t.Fatalf("short set printed %q", out)
	}
	if _, out, _ := evalLine(p, meter, "show"); !strings.Contains(out, "lookahead") {
		t.Fatalf("show printed %q", out)
	}
	if _, out, _ := evalLine(p, meter, "meter"); out != "meters" {
		t.Fatalf("meter printed %q", out)
	}
	if _, out, _ := evalLine(p, meter, "bogus"); !strings.Contains(out, "unknown command") {
		t.Fatalf("bogus printed %q", out)
	}
	if _, _, quit := evalLine(p, meter, "quit"); !quit {
		t.Fatal("quit must exit")
	}
	if got, out, quit := evalLine(p, meter, "   "); got != p || out != "" || quit {
		t.Fatal("blank line must be ignored")
	}
}
