package iseprobe

import (
	"fmt"
	"math"

	"github.com/cgxeiji/iseprobe/ise"
)

const (
	// MVPerPH is the probe slope used to convert between mV and pH.
	MVPerPH = 59.2

	tempCorrection = 0.03
)

// PHToMV converts a pH value into the mV the probe reads at it.
func PHToMV(ph float64) float64 {
	return (7 - ph) * MVPerPH
}

// MVToPH converts a probe reading in mV into pH.
func MVToPH(mv float64) float64 {
	return math.Abs(7.0 - mv/MVPerPH)
}

// PH is a pH probe. Calibration is done in pH and stored by the device in mV.
type PH struct {
	*ise.Device

	// PH and POH are the last measured values, -1 if the reading was out of
	// range.
	PH  float64
	POH float64
}

// NewPH wraps d as a pH probe.
func NewPH(d *ise.Device) *PH {
	return &PH{Device: d}
}

// OpenPH opens a device and wraps it as a pH probe.
func OpenPH(options ...Option) (*PH, error) {
	d, err := open(options)
	if err != nil {
		return nil, err
	}
	return NewPH(d), nil
}

// Measure returns the pH without temperature compensation.
func (p *PH) Measure() (float64, error) {
	return p.MeasurePH()
}

// Unit returns "pH".
func (p *PH) Unit() string {
	return "pH"
}

// MeasurePH measures the pH. Readings outside (0, 14) return -1.
func (p *PH) MeasurePH() (float64, error) {
	return p.measure(math.NaN())
}

// MeasurePHAt measures the pH, compensated for a solution at tempC Celsius.
// A NaN temperature disables compensation.
func (p *PH) MeasurePHAt(tempC float64) (float64, error) {
	return p.measure(tempC)
}

// MeasurePHCompensated measures the pH, compensating with the device
// temperature when temperature compensation is enabled on the device and a
// temperature sensor is attached.
func (p *PH) MeasurePHCompensated() (float64, error) {
	on, err := p.UsingTemperatureCompensation()
	if err != nil {
		return 0, err
	}
	if !on {
		return p.MeasurePH()
	}

	c, err := p.MeasureTemp()
	if err != nil {
		return 0, err
	}
	if c == ise.NoTempSensor {
		return p.MeasurePH()
	}
	return p.MeasurePHAt(c)
}

// measure takes a reading, compensated at temp unless temp is NaN.
func (p *PH) measure(temp float64) (float64, error) {
	mv, err := p.MeasureMV()
	if err != nil {
		return 0, fmt.Errorf("iseprobe: could not measure pH: %w", err)
	}
	if mv == ise.Unavailable {
		p.PH, p.POH = ise.Unavailable, ise.Unavailable
		return p.PH, nil
	}

	ph := MVToPH(mv)
	if !math.IsNaN(temp) {
		ph += compensation(ph, temp)
	}
	poh := math.Abs(ph - 14)

	if ph <= 0.0 || ph >= 14.0 || math.IsNaN(ph) || math.IsInf(mv, 0) {
		ph, poh = ise.Unavailable, ise.Unavailable
	}
	p.PH, p.POH = ph, poh

	return p.PH, nil
}

// compensation returns the pH correction for a solution at temp Celsius. It
// grows by 0.03 per pH unit away from neutral per 10°C away from 25°C.
func compensation(ph, temp float64) float64 {
	distanceFrom7 := math.Abs(7 - math.RoundToEven(ph))
	distanceFrom25 := math.Floor(math.Abs(25-math.RoundToEven(temp)) / 10)
	m := distanceFrom25 * distanceFrom7 * tempCorrection

	if (ph >= 8.0 && temp >= 35) || (ph <= 6.0 && temp <= 15) {
		m = -m
	}
	return m
}

// CalibrateSingle calibrates the probe with a single solution of the given pH.
func (p *PH) CalibrateSingle(solutionPH float64) error {
	return p.Device.CalibrateSingle(PHToMV(solutionPH))
}

// CalibrateLow calibrates the low dual-point reference with a solution of the
// given pH.
func (p *PH) CalibrateLow(solutionPH float64) error {
	return p.Device.CalibrateLow(PHToMV(solutionPH))
}

// CalibrateHigh calibrates the high dual-point reference with a solution of
// the given pH.
func (p *PH) CalibrateHigh(solutionPH float64) error {
	return p.Device.CalibrateHigh(PHToMV(solutionPH))
}

func inPH(mv float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	return MVToPH(mv), nil
}

// CalibrateLowReference returns the low reference in pH.
func (p *PH) CalibrateLowReference() (float64, error) {
	return inPH(p.Device.CalibrateLowReference())
}

// CalibrateHighReference returns the high reference in pH.
func (p *PH) CalibrateHighReference() (float64, error) {
	return inPH(p.Device.CalibrateHighReference())
}

// CalibrateLowReading returns the low reading in pH.
func (p *PH) CalibrateLowReading() (float64, error) {
	return inPH(p.Device.CalibrateLowReading())
}

// CalibrateHighReading returns the high reading in pH.
func (p *PH) CalibrateHighReading() (float64, error) {
	return inPH(p.Device.CalibrateHighReading())
}
