package ise

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by Open when the version register reads
	// 0xFF, i.e. nothing is answering at the address.
	ErrNotConnected = errors.New("ise: device not connected")
	// ErrShortRead is wrapped in a BusError when the transport returns fewer
	// bytes than requested.
	ErrShortRead = errors.New("short read")
)

// BusError reports a failed transaction on the underlying transport. The
// driver never retries; a failed multi-byte access must be re-issued whole.
type BusError struct {
	Op   string
	Addr uint16
	Reg  byte
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("ise: %s %#x at %#x: %v", e.Op, e.Reg, e.Addr, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
