// Package iseprobe measures mV, pH and ORP with a uFire ISE probe interface.
// Each probe kind wraps an ise.Device and only changes how readings and
// calibration values are interpreted.
package iseprobe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a probe kind name is not recognized.
var ErrUnknownKind = errors.New("iseprobe: unknown probe kind")

// Probe is the common interface of all probe kinds. Calibration values are
// in the unit of the probe.
type Probe interface {
	// Measure takes a reading in Unit.
	Measure() (float64, error)
	Unit() string

	MeasureTemp() (float64, error)
	SetTemp(c float64) error

	CalibrateSingle(solution float64) error
	CalibrateLow(solution float64) error
	CalibrateHigh(solution float64) error
	CalibrateOffset() (float64, error)
	CalibrateLowReference() (float64, error)
	CalibrateHighReference() (float64, error)
	CalibrateLowReading() (float64, error)
	CalibrateHighReading() (float64, error)
	Reset() error

	Connected() bool
	Close() error
}

// Kind selects a probe personality.
type Kind int

// Probe kinds
const (
	KindMV Kind = iota
	KindPH
	KindORP
)

func (k Kind) String() string {
	switch k {
	case KindMV:
		return "mv"
	case KindPH:
		return "ph"
	case KindORP:
		return "orp"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses "mv" (or "ise"), "ph" and "orp", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mv", "ise":
		return KindMV, nil
	case "ph":
		return KindPH, nil
	case "orp":
		return KindORP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New opens a probe of the given kind.
func New(kind Kind, options ...Option) (Probe, error) {
	switch kind {
	case KindMV, KindPH, KindORP:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}

	d, err := open(options)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPH:
		return NewPH(d), nil
	case KindORP:
		return NewORP(d), nil
	}
	return NewMV(d), nil
}
