package iseprobe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cgxeiji/iseprobe/ise"
	"github.com/cgxeiji/iseprobe/ise/isetest"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"mv", KindMV},
		{"ISE", KindMV},
		{" pH ", KindPH},
		{"orp", KindORP},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := ParseKind(got.String()); back != got {
			t.Errorf("ParseKind(%v.String()) = %v", got, back)
		}
	}

	if _, err := ParseKind("ec"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(ec) error = %v, want %v", err, ErrUnknownKind)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind Kind
		mv   float64
		want float64
		unit string
	}{
		{KindMV, 236.8, 236.8, "mV"},
		{KindPH, 236.8, 3, "pH"},
		{KindORP, 236.8, 236.8, "mV"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			sim := isetest.New()
			sim.MV = tt.mv

			p, err := New(tt.kind, testOptions(sim)...)
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()

			if !p.Connected() {
				t.Fatal("Connected() = false")
			}
			got, err := p.Measure()
			if err != nil {
				t.Fatal(err)
			}
			if !near(got, tt.want) {
				t.Errorf("Measure() = %v, want %v", got, tt.want)
			}
			if p.Unit() != tt.unit {
				t.Errorf("Unit() = %q, want %q", p.Unit(), tt.unit)
			}
		})
	}

	if _, err := New(Kind(9), testOptions(isetest.New())...); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(9) error = %v, want %v", err, ErrUnknownKind)
	}
}

func TestOnAddr(t *testing.T) {
	sim := isetest.New()
	p, err := OpenMV(append(testOptions(sim), OnAddr(0x20))...)
	if err != nil {
		t.Fatal(err)
	}
	if p.Addr() != 0x20 {
		t.Errorf("Addr() = %#x, want 0x20", p.Addr())
	}
	if p.Connected() {
		t.Error("Connected() = true at an address nothing answers at")
	}
}

func TestOptionRestore(t *testing.T) {
	c := &config{}
	restore := OnAddr(0x30)(c)
	if c.addr != 0x30 {
		t.Fatalf("addr = %#x, want 0x30", c.addr)
	}
	restore(c)
	if c.addr != 0 {
		t.Errorf("addr = %#x after restore, want 0", c.addr)
	}

	restore = OnEmbdBus(1)(c)
	if !c.embd || c.embdBus != 1 {
		t.Fatalf("embd = %v bus %d, want true 1", c.embd, c.embdBus)
	}
	restore(c)
	if c.embd {
		t.Error("embd still selected after restore")
	}
}

// ph calibration goes through the same registers as the raw device, only in
// different units.
func TestProbeCalibrationUnits(t *testing.T) {
	sim := isetest.New()
	probes := map[Kind]Probe{}
	for _, k := range []Kind{KindMV, KindPH} {
		p, err := New(k, testOptions(sim)...)
		if err != nil {
			t.Fatal(err)
		}
		probes[k] = p
	}

	if err := probes[KindPH].CalibrateHigh(10); err != nil {
		t.Fatal(err)
	}
	mv, err := probes[KindMV].CalibrateHighReference()
	if err != nil {
		t.Fatal(err)
	}
	got := []float64{mv, sim.Float(ise.RegCalRefHigh)}
	want := []float64{-177.6, float64(float32(-177.6))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("high reference mismatch (-want +got):\n%s", diff)
	}
}
