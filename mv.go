package iseprobe

import "github.com/cgxeiji/iseprobe/ise"

// MV is a generic ion selective electrode reporting raw millivolts.
type MV struct {
	*ise.Device
}

// NewMV wraps d.
func NewMV(d *ise.Device) *MV {
	return &MV{Device: d}
}

// OpenMV opens a device and wraps it as a generic probe.
func OpenMV(options ...Option) (*MV, error) {
	d, err := open(options)
	if err != nil {
		return nil, err
	}
	return NewMV(d), nil
}

// Measure returns the probe potential in mV.
func (m *MV) Measure() (float64, error) {
	return m.MeasureMV()
}

// Unit returns "mV".
func (m *MV) Unit() string {
	return "mV"
}
