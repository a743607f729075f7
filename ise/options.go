package ise

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Option defines a functional option for the device. Applying an option
// returns the option that restores the previous value.
type Option func(d *Device) Option

// Options sets different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) Option {
	defer d.lock()()

	var old Option
	for _, opt := range options {
		old = opt(d)
	}
	return old
}

// Logger sets the logger used for transaction traces. By default, the logrus
// standard logger is used.
func Logger(l logrus.FieldLogger) Option {
	return func(d *Device) Option {
		old := d.log
		d.log = l
		return Logger(old)
	}
}

// Sleep replaces the function used to wait for transaction and settle delays.
// By default, this is time.Sleep.
func Sleep(fn func(time.Duration)) Option {
	return func(d *Device) Option {
		old := d.sleep
		d.sleep = fn
		return Sleep(old)
	}
}

// config keeps the config register bits selected by mask, sets flag and
// returns the previous value of the bits outside mask.
func (d *Device) config(mask, flag byte) (byte, error) {
	cfg, err := d.readByte(RegConfig)
	if err != nil {
		return 0, fmt.Errorf("could not get %#b from config: %w", ^mask, err)
	}
	old := cfg &^ mask
	cfg &= mask
	cfg |= flag
	if err := d.writeByte(RegConfig, cfg); err != nil {
		return 0, fmt.Errorf("could not set %#b in config: %w", flag, err)
	}

	return old, nil
}

func (d *Device) setBit(bit byte, on bool) error {
	defer d.lock()()

	flag := byte(0)
	if on {
		flag = bit
	}
	_, err := d.config(^bit, flag)
	return err
}

func (d *Device) bit(bit byte) (bool, error) {
	cfg, err := d.Read(RegConfig)
	if err != nil {
		return false, err
	}
	return cfg&bit != 0, nil
}

// Config returns the raw config register.
func (d *Device) Config() (byte, error) {
	cfg, err := d.Read(RegConfig)
	if err != nil {
		return 0, fmt.Errorf("ise: could not get config: %w", err)
	}
	return cfg, nil
}

// UseTemperatureCompensation configures the device to compensate readings
// with the measured or set temperature. Other config bits are preserved.
func (d *Device) UseTemperatureCompensation(on bool) error {
	if err := d.setBit(TempCompens, on); err != nil {
		return fmt.Errorf("ise: could not configure temperature compensation: %w", err)
	}
	return nil
}

// UsingTemperatureCompensation reports whether temperature compensation is on.
func (d *Device) UsingTemperatureCompensation() (bool, error) {
	on, err := d.bit(TempCompens)
	if err != nil {
		return false, fmt.Errorf("ise: could not get temperature compensation: %w", err)
	}
	return on, nil
}

// UseDualPoint configures the device to use dual-point calibration.
func (d *Device) UseDualPoint(on bool) error {
	if err := d.setBit(DualPoint, on); err != nil {
		return fmt.Errorf("ise: could not configure dual point: %w", err)
	}
	return nil
}

// UsingDualPoint reports whether dual-point calibration is on.
func (d *Device) UsingDualPoint() (bool, error) {
	on, err := d.bit(DualPoint)
	if err != nil {
		return false, fmt.Errorf("ise: could not get dual point: %w", err)
	}
	return on, nil
}
