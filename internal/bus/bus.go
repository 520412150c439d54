// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bus defines the register-addressed transport the sensor decoders
// run on, and an I2C implementation of it.
package bus

import "fmt"

// RegisterBus is a shared, addressable register bus. Implementations own
// the bus lifecycle; decoders only issue transactions.
type RegisterBus interface {
	// WriteReg writes data to a device register.
	WriteReg(addr uint16, reg uint8, data []byte) error
	// ReadReg reads n bytes starting at a device register.
	ReadReg(addr uint16, reg uint8, n int) ([]byte, error)
}

// Error is a transport-level bus failure: the transaction itself did not
// complete. Degraded sensor data is never reported as an Error.
type Error struct {
	Op   string // "read" or "write"
	Addr uint16
	Reg  uint8
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bus %s addr=0x%02X reg=0x%02X: %v", e.Op, e.Addr, e.Reg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
