package iseprobe

import (
	"math"
	"testing"

	"github.com/cgxeiji/iseprobe/ise/isetest"
)

func newORP(t *testing.T) (*ORP, *isetest.Sim) {
	t.Helper()
	sim := isetest.New()
	o, err := OpenORP(testOptions(sim)...)
	if err != nil {
		t.Fatal(err)
	}
	return o, sim
}

func TestProbePotential(t *testing.T) {
	o, sim := newORP(t)

	if err := o.SetProbePotential(222); err != nil {
		t.Fatal(err)
	}
	if v, ok := sim.EEPROM(ProbePotentialAddress); !ok || v != 222 {
		t.Errorf("EEPROM[%d] = %v, %v, want 222", ProbePotentialAddress, v, ok)
	}

	got, err := o.ProbePotential()
	if err != nil {
		t.Fatal(err)
	}
	if got != 222 {
		t.Errorf("ProbePotential() = %v, want 222", got)
	}
}

func TestMeasureORP(t *testing.T) {
	tests := []struct {
		name string
		mv   float64
		orp  float64
		eh   float64
	}{
		{"positive", 245.5, 245.5, 445.5},
		{"negative", -120.25, -120.25, 79.75},
		{"unavailable", math.NaN(), -1, 199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, sim := newORP(t)
			if err := o.SetProbePotential(200); err != nil {
				t.Fatal(err)
			}
			sim.MV = tt.mv

			got, err := o.MeasureORP()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.orp || o.ORP != tt.orp {
				t.Errorf("MeasureORP() = %v (ORP %v), want %v", got, o.ORP, tt.orp)
			}
			if !near(o.Eh, tt.eh) {
				t.Errorf("Eh = %v, want %v", o.Eh, tt.eh)
			}
			if o.MV != tt.orp {
				t.Errorf("MV = %v, want %v", o.MV, tt.orp)
			}
		})
	}
}

func TestMeasureORPWithoutPotential(t *testing.T) {
	o, sim := newORP(t)
	sim.MV = 100

	got, err := o.Measure()
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("Measure() = %v, want 100", got)
	}
	if !math.IsNaN(o.Eh) {
		t.Errorf("Eh = %v with no stored potential, want NaN", o.Eh)
	}
}
