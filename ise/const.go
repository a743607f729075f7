package ise

import "time"

// Register addresses
const (
	RegVersion      = 0  // 1 byte, hardware version
	RegMV           = 1  // float, measured mV
	RegTemp         = 5  // float, temperature in C
	RegCalOffset    = 9  // float, single point offset
	RegCalRefHigh   = 13 // float, reference high
	RegCalRefLow    = 17 // float, reference low
	RegCalReadHigh  = 21 // float, reading high
	RegCalReadLow   = 25 // float, reading low
	RegSolution     = 29 // float, solution/argument scratch register
	RegBuffer       = 33 // float, EEPROM data buffer
	RegFWVersion    = 37 // 1 byte, firmware version
	RegConfig       = 38 // 1 byte, config bitfield
	RegTask         = 39 // 1 byte, task register
	floatWidth      = 4
)

// Commands written to RegTask.
const (
	CmdMeasureMV    byte = 80
	CmdMeasureTemp  byte = 40
	CmdCalSingle    byte = 20
	CmdCalLow       byte = 10
	CmdCalHigh      byte = 8
	CmdMemoryWrite  byte = 4
	CmdMemoryRead   byte = 2
	CmdChangeI2CAdr byte = 1
)

// Config bits
const (
	DualPoint   byte = (1 << 0)
	TempCompens byte = (1 << 1)
)

// Device constants
const (
	Addr    = 0x3F
	MinAddr = 1
	MaxAddr = 127

	// NoDevice is what the version register reads as when nothing answers.
	NoDevice = 0xFF
	// NoTempSensor is the temperature reported when no thermistor is attached.
	NoTempSensor = -127.0
	// Unavailable replaces a measurement that came back NaN or infinite.
	Unavailable = -1.0
)

// Settle times
const (
	txDelay         = 10 * time.Millisecond
	mvMeasureTime   = 250 * time.Millisecond
	tempMeasureTime = 750 * time.Millisecond
)
