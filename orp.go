package iseprobe

import (
	"fmt"
	"math"

	"github.com/cgxeiji/iseprobe/ise"
)

// ProbePotentialAddress is the EEPROM slot holding the probe potential used
// to derive Eh.
const ProbePotentialAddress = 100

// ORP is an oxidation-reduction potential probe.
type ORP struct {
	*ise.Device

	// ORP and Eh are the last measured values in mV.
	ORP float64
	Eh  float64
}

// NewORP wraps d as an ORP probe.
func NewORP(d *ise.Device) *ORP {
	return &ORP{Device: d}
}

// OpenORP opens a device and wraps it as an ORP probe.
func OpenORP(options ...Option) (*ORP, error) {
	d, err := open(options)
	if err != nil {
		return nil, err
	}
	return NewORP(d), nil
}

// Measure returns the ORP in mV.
func (o *ORP) Measure() (float64, error) {
	return o.MeasureORP()
}

// Unit returns "mV".
func (o *ORP) Unit() string {
	return "mV"
}

// MeasureORP measures the ORP and updates Eh with the stored probe potential.
func (o *ORP) MeasureORP() (float64, error) {
	mv, err := o.MeasureMV()
	if err != nil {
		return 0, fmt.Errorf("iseprobe: could not measure ORP: %w", err)
	}
	potential, err := o.ProbePotential()
	if err != nil {
		return 0, fmt.Errorf("iseprobe: could not measure ORP: %w", err)
	}

	o.ORP = mv
	o.Eh = mv + potential
	if math.IsNaN(o.ORP) || math.IsInf(mv, 0) {
		o.ORP, o.Eh = ise.Unavailable, ise.Unavailable
	}

	return o.ORP, nil
}

// SetProbePotential stores the probe potential, in mV, in the device EEPROM.
func (o *ORP) SetProbePotential(potential float64) error {
	if err := o.WriteEEPROM(ProbePotentialAddress, potential); err != nil {
		return fmt.Errorf("iseprobe: could not set probe potential: %w", err)
	}
	return nil
}

// ProbePotential returns the probe potential stored in the device EEPROM.
func (o *ORP) ProbePotential() (float64, error) {
	v, err := o.ReadEEPROM(ProbePotentialAddress)
	if err != nil {
		return 0, fmt.Errorf("iseprobe: could not get probe potential: %w", err)
	}
	return v, nil
}
