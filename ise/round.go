package ise

import (
	"math"
	"strconv"
)

// SigDigits is the number of significant digits kept for every float that
// crosses the bus.
const SigDigits = 7

// Magnitude returns floor(log10(|x|)) + 1, the number of digits left of the
// decimal point. Zero, NaN and infinities have magnitude 0.
func Magnitude(x float64) int {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(math.Log10(math.Abs(x)))) + 1
}

// Round rounds x to SigDigits significant digits, that is to
// SigDigits-Magnitude(x) decimal places. Ties round to even. NaN and
// infinities are returned unchanged.
func Round(x float64) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	var s string
	if places := SigDigits - Magnitude(x); places >= 0 {
		s = strconv.FormatFloat(x, 'f', places, 64)
	} else {
		// more than SigDigits integer digits, round left of the point
		s = strconv.FormatFloat(x, 'e', SigDigits-1, 64)
	}

	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return x
	}
	return r
}

// round2 rounds a millivolt reading to two decimal places.
func round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

func encodeFloat(x float64) []byte {
	b := make([]byte, floatWidth)
	bits := math.Float32bits(float32(Round(x)))
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
	return b
}

func decodeFloat(b []byte) float64 {
	bits := uint32(b[0]) |
		uint32(b[1])<<8 |
		uint32(b[2])<<16 |
		uint32(b[3])<<24
	return Round(float64(math.Float32frombits(bits)))
}
