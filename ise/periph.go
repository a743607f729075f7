package ise

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// PeriphBus adapts a periph.io I²C bus to Bus.
type PeriphBus struct {
	Bus i2c.Bus
}

// WriteBytes writes reg followed by b in a single transaction.
func (p PeriphBus) WriteBytes(addr uint16, reg byte, b []byte) error {
	w := make([]byte, 0, len(b)+1)
	w = append(w, reg)
	w = append(w, b...)
	return p.Bus.Tx(addr, w, nil)
}

// ReadBytes selects reg and reads n bytes from it.
func (p PeriphBus) ReadBytes(addr uint16, reg byte, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := p.Bus.Tx(addr, []byte{reg}, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Open returns a device on a periph.io I²C bus.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// Argument "addr" can be used to specify an alternative address if the default (0x3F) was changed.
// If "busName" argument is specified as an empty string "" the first available bus will be used.
func Open(busName string, addr uint16, options ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ise: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("ise: could not open I2C bus: %w", err)
	}

	d := New(PeriphBus{Bus: bus}, addr, options...)
	d.closer = bus

	if err := d.probe(); err != nil {
		bus.Close()
		return nil, err
	}

	return d, nil
}

// probe checks that something answers at the device address.
func (d *Device) probe() error {
	v, err := d.Version()
	if err != nil {
		return err
	}
	if v == NoDevice {
		return ErrNotConnected
	}
	return nil
}
