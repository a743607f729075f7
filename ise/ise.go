// Package ise talks to a uFire ISE probe interface over I²C. The device
// exposes a small register file of 4-byte little-endian floats and single
// bytes; actions are triggered by writing a command to the task register and
// waiting for the probe to settle.
package ise

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Bus is the transport used to reach the device. Implementations select reg
// and then write or read the following bytes in one transaction.
type Bus interface {
	WriteBytes(addr uint16, reg byte, b []byte) error
	ReadBytes(addr uint16, reg byte, n int) ([]byte, error)
}

// State is the progress of the command being executed by a Device.
type State int

// Command states
const (
	Idle State = iota
	CommandSent
	Settling
	ResultAvailable
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CommandSent:
		return "command sent"
	case Settling:
		return "settling"
	case ResultAvailable:
		return "result available"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Device defines an ISE probe interface. Only one operation runs at a time;
// concurrent callers wait for their turn.
type Device struct {
	bus    Bus
	closer io.Closer
	addr   uint16
	log    logrus.FieldLogger
	sleep  func(time.Duration)
	token  chan struct{}
	state  State

	// MV is the last measured value in millivolts.
	MV float64

	// TempC and TempF are the last measured or set temperature.
	TempC float64
	TempF float64
}

// New returns a Device at addr on bus. The bus is not touched until the first
// operation. If addr is 0 the default address (0x3F) is used.
func New(bus Bus, addr uint16, options ...Option) *Device {
	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		bus:   bus,
		addr:  addr,
		log:   logrus.StandardLogger(),
		sleep: time.Sleep,
		token: make(chan struct{}, 1),
	}
	for _, opt := range options {
		opt(d)
	}
	d.token <- struct{}{}

	return d
}

// Close releases the bus if the device opened it.
func (d *Device) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Addr returns the address used for all transactions.
func (d *Device) Addr() uint16 {
	return d.addr
}

// State returns the state of the current command.
func (d *Device) State() State {
	return d.state
}

func (d *Device) lock() func() {
	<-d.token
	return func() {
		d.state = Idle
		d.token <- struct{}{}
	}
}

func (d *Device) transition(s State) {
	d.state = s
	d.log.WithFields(logrus.Fields{
		"addr":  d.addr,
		"state": s,
	}).Debug("ise: state")
}

func (d *Device) busError(op string, reg byte, err error) error {
	d.log.WithFields(logrus.Fields{
		"addr": d.addr,
		"reg":  reg,
	}).WithError(err).Warn("ise: " + op + " failed")

	return &BusError{Op: op, Addr: d.addr, Reg: reg, Err: err}
}

func (d *Device) writeByte(reg, v byte) error {
	err := d.bus.WriteBytes(d.addr, reg, []byte{v})
	d.sleep(txDelay)
	if err != nil {
		return d.busError("write byte", reg, err)
	}
	d.log.WithFields(logrus.Fields{"addr": d.addr, "reg": reg, "value": v}).Debug("ise: write byte")

	return nil
}

func (d *Device) readByte(reg byte) (byte, error) {
	b, err := d.bus.ReadBytes(d.addr, reg, 1)
	d.sleep(txDelay)
	if err == nil && len(b) != 1 {
		err = ErrShortRead
	}
	if err != nil {
		return 0, d.busError("read byte", reg, err)
	}
	d.log.WithFields(logrus.Fields{"addr": d.addr, "reg": reg, "value": b[0]}).Debug("ise: read byte")

	return b[0], nil
}

func (d *Device) writeFloat(reg byte, v float64) error {
	err := d.bus.WriteBytes(d.addr, reg, encodeFloat(v))
	d.sleep(txDelay)
	if err != nil {
		return d.busError("write float", reg, err)
	}
	d.log.WithFields(logrus.Fields{"addr": d.addr, "reg": reg, "value": v}).Debug("ise: write float")

	return nil
}

func (d *Device) readFloat(reg byte) (float64, error) {
	b, err := d.bus.ReadBytes(d.addr, reg, floatWidth)
	d.sleep(txDelay)
	if err == nil && len(b) != floatWidth {
		err = ErrShortRead
	}
	if err != nil {
		return 0, d.busError("read float", reg, err)
	}
	v := decodeFloat(b)
	d.log.WithFields(logrus.Fields{"addr": d.addr, "reg": reg, "value": v}).Debug("ise: read float")

	return v, nil
}

// command writes cmd to the task register and blocks for settle.
func (d *Device) command(cmd byte, settle time.Duration) error {
	if err := d.writeByte(RegTask, cmd); err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"addr": d.addr, "cmd": cmd, "settle": settle}).Debug("ise: command")
	d.transition(CommandSent)
	d.transition(Settling)
	d.sleep(settle)
	d.transition(ResultAvailable)

	return nil
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	defer d.lock()()
	return d.readByte(reg)
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	defer d.lock()()
	return d.writeByte(reg, data)
}

// ReadFloat reads the float register at reg, rounded to SigDigits.
func (d *Device) ReadFloat(reg byte) (float64, error) {
	defer d.lock()()
	return d.readFloat(reg)
}

// WriteFloat rounds v to SigDigits and writes it to the float register at reg.
func (d *Device) WriteFloat(reg byte, v float64) error {
	defer d.lock()()
	return d.writeFloat(reg, v)
}

// MeasureMV starts a probe measurement and returns it in millivolts, rounded
// to two decimals. A NaN or infinite reading is reported as -1.
func (d *Device) MeasureMV() (float64, error) {
	defer d.lock()()

	if err := d.command(CmdMeasureMV, mvMeasureTime); err != nil {
		return 0, fmt.Errorf("ise: could not measure mV: %w", err)
	}
	mv, err := d.readFloat(RegMV)
	if err != nil {
		return 0, fmt.Errorf("ise: could not read mV: %w", err)
	}

	mv = round2(mv)
	if math.IsNaN(mv) || math.IsInf(mv, 0) {
		mv = Unavailable
	}
	d.MV = mv

	return d.MV, nil
}

// MeasureTemp starts a temperature measurement and returns it in Celsius.
// A reading of -127 means no temperature sensor is attached, in which case
// TempF is -127 as well.
func (d *Device) MeasureTemp() (float64, error) {
	defer d.lock()()

	if err := d.command(CmdMeasureTemp, tempMeasureTime); err != nil {
		return 0, fmt.Errorf("ise: could not measure temperature: %w", err)
	}
	c, err := d.readFloat(RegTemp)
	if err != nil {
		return 0, fmt.Errorf("ise: could not read temperature: %w", err)
	}

	d.TempC = c
	if c == NoTempSensor {
		d.TempF = NoTempSensor
	} else {
		d.TempF = fahrenheit(c)
	}

	return d.TempC, nil
}

// SetTemp sets the temperature used by the device, for probes without a
// thermistor.
func (d *Device) SetTemp(c float64) error {
	defer d.lock()()

	if err := d.writeFloat(RegTemp, c); err != nil {
		return fmt.Errorf("ise: could not set temperature: %w", err)
	}
	d.TempC = c
	d.TempF = fahrenheit(c)

	return nil
}

func fahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func (d *Device) calibrate(cmd byte, solutionMV float64) error {
	defer d.lock()()

	if err := d.writeFloat(RegSolution, solutionMV); err != nil {
		return err
	}
	return d.command(cmd, mvMeasureTime)
}

// CalibrateSingle calibrates the probe with a single solution of solutionMV
// millivolts. The device stores the resulting offset.
func (d *Device) CalibrateSingle(solutionMV float64) error {
	if err := d.calibrate(CmdCalSingle, solutionMV); err != nil {
		return fmt.Errorf("ise: could not calibrate single point: %w", err)
	}
	return nil
}

// CalibrateLow calibrates the low dual-point reference with a solution of
// solutionMV millivolts.
func (d *Device) CalibrateLow(solutionMV float64) error {
	if err := d.calibrate(CmdCalLow, solutionMV); err != nil {
		return fmt.Errorf("ise: could not calibrate low point: %w", err)
	}
	return nil
}

// CalibrateHigh calibrates the high dual-point reference with a solution of
// solutionMV millivolts.
func (d *Device) CalibrateHigh(solutionMV float64) error {
	if err := d.calibrate(CmdCalHigh, solutionMV); err != nil {
		return fmt.Errorf("ise: could not calibrate high point: %w", err)
	}
	return nil
}

// SetDualPointCalibration writes all four dual-point values, in mV. The
// writes are independent; a failure may leave some of them updated.
func (d *Device) SetDualPointCalibration(refLow, refHigh, readLow, readHigh float64) error {
	defer d.lock()()

	for _, w := range []struct {
		reg byte
		v   float64
	}{
		{RegCalRefLow, refLow},
		{RegCalRefHigh, refHigh},
		{RegCalReadLow, readLow},
		{RegCalReadHigh, readHigh},
	} {
		if err := d.writeFloat(w.reg, w.v); err != nil {
			return fmt.Errorf("ise: could not set dual point calibration: %w", err)
		}
	}

	return nil
}

// Reset clears all calibration data. Every calibration register reads NaN
// afterwards.
func (d *Device) Reset() error {
	defer d.lock()()

	n := math.NaN()
	for _, reg := range []byte{
		RegCalOffset,
		RegCalRefHigh,
		RegCalRefLow,
		RegCalReadHigh,
		RegCalReadLow,
	} {
		if err := d.writeFloat(reg, n); err != nil {
			return fmt.Errorf("ise: could not reset calibration: %w", err)
		}
	}

	return nil
}

func (d *Device) calibration(reg byte, name string) (float64, error) {
	v, err := d.ReadFloat(reg)
	if err != nil {
		return 0, fmt.Errorf("ise: could not get %s: %w", name, err)
	}
	return v, nil
}

// CalibrateOffset returns the single-point offset. NaN means uncalibrated.
func (d *Device) CalibrateOffset() (float64, error) {
	return d.calibration(RegCalOffset, "calibration offset")
}

// CalibrateHighReference returns the dual-point high reference value.
func (d *Device) CalibrateHighReference() (float64, error) {
	return d.calibration(RegCalRefHigh, "high reference")
}

// CalibrateLowReference returns the dual-point low reference value.
func (d *Device) CalibrateLowReference() (float64, error) {
	return d.calibration(RegCalRefLow, "low reference")
}

// CalibrateHighReading returns the dual-point high reading value.
func (d *Device) CalibrateHighReading() (float64, error) {
	return d.calibration(RegCalReadHigh, "high reading")
}

// CalibrateLowReading returns the dual-point low reading value.
func (d *Device) CalibrateLowReading() (float64, error) {
	return d.calibration(RegCalReadLow, "low reading")
}

// Version returns the hardware version of the device.
func (d *Device) Version() (byte, error) {
	v, err := d.Read(RegVersion)
	if err != nil {
		return 0, fmt.Errorf("ise: could not get version: %w", err)
	}
	return v, nil
}

// Firmware returns the firmware version of the device.
func (d *Device) Firmware() (byte, error) {
	v, err := d.Read(RegFWVersion)
	if err != nil {
		return 0, fmt.Errorf("ise: could not get firmware version: %w", err)
	}
	return v, nil
}

// Connected reports whether a device answers at the current address.
func (d *Device) Connected() bool {
	v, err := d.Version()
	return err == nil && v != NoDevice
}

// SetAddr permanently changes the I²C address of the device and uses it for
// every following transaction. Addresses outside 1-127 are ignored.
func (d *Device) SetAddr(addr uint16) error {
	defer d.lock()()

	if addr < MinAddr || addr > MaxAddr {
		d.log.WithField("addr", addr).Debug("ise: address out of range, ignored")
		return nil
	}

	if err := d.writeFloat(RegSolution, float64(addr)); err != nil {
		return fmt.Errorf("ise: could not change address: %w", err)
	}
	if err := d.command(CmdChangeI2CAdr, 0); err != nil {
		return fmt.Errorf("ise: could not change address: %w", err)
	}
	d.addr = addr

	return nil
}

// ReadEEPROM reads the float stored at address in the device EEPROM.
func (d *Device) ReadEEPROM(address int) (float64, error) {
	defer d.lock()()

	if err := d.writeFloat(RegSolution, float64(address)); err != nil {
		return 0, fmt.Errorf("ise: could not read EEPROM at %d: %w", address, err)
	}
	if err := d.command(CmdMemoryRead, 0); err != nil {
		return 0, fmt.Errorf("ise: could not read EEPROM at %d: %w", address, err)
	}
	v, err := d.readFloat(RegBuffer)
	if err != nil {
		return 0, fmt.Errorf("ise: could not read EEPROM at %d: %w", address, err)
	}

	return v, nil
}

// WriteEEPROM stores value at address in the device EEPROM.
func (d *Device) WriteEEPROM(address int, value float64) error {
	defer d.lock()()

	if err := d.writeFloat(RegSolution, float64(address)); err != nil {
		return fmt.Errorf("ise: could not write EEPROM at %d: %w", address, err)
	}
	if err := d.writeFloat(RegBuffer, value); err != nil {
		return fmt.Errorf("ise: could not write EEPROM at %d: %w", address, err)
	}
	if err := d.command(CmdMemoryWrite, 0); err != nil {
		return fmt.Errorf("ise: could not write EEPROM at %d: %w", address, err)
	}

	return nil
}
