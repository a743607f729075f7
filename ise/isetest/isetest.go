// Package isetest provides an in-memory ISE probe interface for tests. Sim
// implements ise.Bus and reacts to task register commands the way the probe
// firmware does.
package isetest

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/cgxeiji/iseprobe/ise"
)

// ErrNACK is returned for transactions to an address nothing answers at.
var ErrNACK = errors.New("isetest: no acknowledge")

// Tx is a transaction seen by the simulator.
type Tx struct {
	Write bool
	Addr  uint16
	Reg   byte
	Data  []byte
}

// Sim simulates an ISE probe interface.
type Sim struct {
	mu     sync.Mutex
	addr   uint16
	regs   [ise.RegTask + 1]byte
	eeprom map[int]float32
	log    []Tx

	// MV and TempC are what the probe reads on the next measurement.
	MV    float64
	TempC float64

	// Fault, when set, is called before every transaction; a non-nil error
	// fails it.
	Fault func(tx Tx) error
}

// New returns a simulated, uncalibrated device at ise.Addr.
func New() *Sim {
	s := &Sim{
		addr:   ise.Addr,
		eeprom: map[int]float32{},
		TempC:  25,
	}
	s.regs[ise.RegVersion] = 0x1c
	s.regs[ise.RegFWVersion] = 0x0a
	for _, reg := range []byte{
		ise.RegCalOffset,
		ise.RegCalRefHigh,
		ise.RegCalRefLow,
		ise.RegCalReadHigh,
		ise.RegCalReadLow,
	} {
		s.putFloat(reg, math.NaN())
	}
	return s
}

// WriteBytes implements ise.Bus.
func (s *Sim) WriteBytes(addr uint16, reg byte, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := Tx{Write: true, Addr: addr, Reg: reg, Data: append([]byte(nil), b...)}
	if err := s.check(tx); err != nil {
		return err
	}
	copy(s.regs[reg:], b)

	if reg == ise.RegTask && len(b) == 1 {
		s.dispatch(b[0])
	}
	return nil
}

// ReadBytes implements ise.Bus.
func (s *Sim) ReadBytes(addr uint16, reg byte, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := Tx{Addr: addr, Reg: reg}
	if err := s.check(tx); err != nil {
		return nil, err
	}
	end := int(reg) + n
	if end > len(s.regs) {
		end = len(s.regs)
	}
	b := append([]byte(nil), s.regs[reg:end]...)
	s.log[len(s.log)-1].Data = b

	return b, nil
}

func (s *Sim) check(tx Tx) error {
	if s.Fault != nil {
		if err := s.Fault(tx); err != nil {
			return err
		}
	}
	if tx.Addr != s.addr {
		return ErrNACK
	}
	s.log = append(s.log, tx)
	return nil
}

func (s *Sim) dispatch(cmd byte) {
	solution := s.float(ise.RegSolution)

	switch cmd {
	case ise.CmdMeasureMV:
		s.putFloat(ise.RegMV, s.MV)
	case ise.CmdMeasureTemp:
		s.putFloat(ise.RegTemp, s.TempC)
	case ise.CmdCalSingle:
		s.putFloat(ise.RegCalOffset, solution-s.MV)
	case ise.CmdCalLow:
		s.putFloat(ise.RegCalRefLow, solution)
		s.putFloat(ise.RegCalReadLow, s.MV)
	case ise.CmdCalHigh:
		s.putFloat(ise.RegCalRefHigh, solution)
		s.putFloat(ise.RegCalReadHigh, s.MV)
	case ise.CmdMemoryWrite:
		s.eeprom[int(solution)] = float32(s.float(ise.RegBuffer))
	case ise.CmdMemoryRead:
		v, ok := s.eeprom[int(solution)]
		if !ok {
			v = float32(math.NaN())
		}
		s.putFloat(ise.RegBuffer, float64(v))
	case ise.CmdChangeI2CAdr:
		s.addr = uint16(solution)
	}
}

func (s *Sim) putFloat(reg byte, v float64) {
	bits := math.Float32bits(float32(v))
	s.regs[reg] = byte(bits)
	s.regs[reg+1] = byte(bits >> 8)
	s.regs[reg+2] = byte(bits >> 16)
	s.regs[reg+3] = byte(bits >> 24)
}

func (s *Sim) float(reg byte) float64 {
	bits := uint32(s.regs[reg]) |
		uint32(s.regs[reg+1])<<8 |
		uint32(s.regs[reg+2])<<16 |
		uint32(s.regs[reg+3])<<24
	return float64(math.Float32frombits(bits))
}

// Float returns the raw value of a float register.
func (s *Sim) Float(reg byte) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.float(reg)
}

// SetFloat sets the raw value of a float register.
func (s *Sim) SetFloat(reg byte, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putFloat(reg, v)
}

// Byte returns the value of a byte register.
func (s *Sim) Byte(reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// SetByte sets the value of a byte register.
func (s *Sim) SetByte(reg, v byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg] = v
}

// EEPROM returns the value stored at address and whether it was ever written.
func (s *Sim) EEPROM(address int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.eeprom[address]
	return float64(v), ok
}

// Addr returns the address the simulated device answers at.
func (s *Sim) Addr() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Log returns the transactions acknowledged so far.
func (s *Sim) Log() []Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tx(nil), s.log...)
}

// ResetLog forgets all recorded transactions.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
}

// Clock records requested delays instead of sleeping. Pass Clock.Sleep to
// ise.Sleep.
type Clock struct {
	mu     sync.Mutex
	Sleeps []time.Duration
}

// Sleep records d.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sleeps = append(c.Sleeps, d)
}

// Total returns the sum of all recorded delays.
func (c *Clock) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var t time.Duration
	for _, d := range c.Sleeps {
		t += d
	}
	return t
}
