package ise

import (
	"fmt"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all" // register host drivers
)

// EmbdBus adapts an embd I²C bus to Bus. embd addresses are 7 bits, so only
// the low byte of addr is used.
type EmbdBus struct {
	Bus embd.I2CBus
}

// WriteBytes writes b to reg.
func (e EmbdBus) WriteBytes(addr uint16, reg byte, b []byte) error {
	return e.Bus.WriteToReg(byte(addr), reg, b)
}

// ReadBytes reads n bytes from reg.
func (e EmbdBus) ReadBytes(addr uint16, reg byte, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := e.Bus.ReadFromReg(byte(addr), reg, b); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenEmbd returns a device on I²C bus number busNumber using embd, for hosts
// where periph.io is not available.
func OpenEmbd(busNumber byte, addr uint16, options ...Option) (*Device, error) {
	if err := embd.InitI2C(); err != nil {
		return nil, fmt.Errorf("ise: could not initialize embd I2C: %w", err)
	}
	bus := embd.NewI2CBus(busNumber)

	d := New(EmbdBus{Bus: bus}, addr, options...)
	d.closer = bus

	if err := d.probe(); err != nil {
		bus.Close()
		return nil, err
	}

	return d, nil
}
