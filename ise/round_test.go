package ise_test

import (
	"math"
	"testing"

	"github.com/cgxeiji/iseprobe/ise"
)

func TestMagnitude(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{1, 1},
		{9.99, 1},
		{10, 2},
		{-236.8, 3},
		{1234567, 7},
		{0.5, 0},
		{0.0001234567, -3},
	}

	for _, tt := range tests {
		if got := ise.Magnitude(tt.x); got != tt.want {
			t.Errorf("Magnitude(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{1.01, 1.01},
		{float64(float32(1.01)), 1.01},
		{float64(float32(236.8)), 236.8},
		{3.14159265, 3.141593},
		{-3.14159265, -3.141593},
		{0.0001234567891, 0.0001234568},
		{1234567.4, 1234567},
		{123456789, 123456800},
		// ties round to even
		{1234566.5, 1234566},
		{1234567.5, 1234568},
		{12345665, 12345660},
		{12345675, 12345680},
	}

	for _, tt := range tests {
		if got := ise.Round(tt.x); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestRoundSpecial(t *testing.T) {
	if got := ise.Round(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Round(NaN) = %v, want NaN", got)
	}
	if got := ise.Round(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round(+Inf) = %v, want +Inf", got)
	}
	if got := ise.Round(math.Inf(-1)); !math.IsInf(got, -1) {
		t.Errorf("Round(-Inf) = %v, want -Inf", got)
	}
}

func TestRoundIdempotent(t *testing.T) {
	for _, x := range []float64{
		1.0 / 3, 2.0 / 3, -7.77777777, 59.2, 0.000000123456789, 987654321.123,
		float64(float32(0.1)), 1e-30, 6.02214076e23, 9999999.6,
	} {
		once := ise.Round(x)
		if twice := ise.Round(once); twice != once {
			t.Errorf("Round(Round(%v)) = %v, want %v", x, twice, once)
		}
	}
}
