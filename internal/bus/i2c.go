// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CBus implements RegisterBus on a periph.io I2C bus.
type I2CBus struct {
	bus i2c.BusCloser
}

// OpenI2C initializes the periph host and opens the named I2C bus
// (e.g. "/dev/i2c-1", or "" for the first available bus).
func OpenI2C(name string) (*I2CBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2c open %q: %w", name, err)
	}
	return &I2CBus{bus: b}, nil
}

func (b *I2CBus) WriteReg(addr uint16, reg uint8, data []byte) error {
	d := i2c.Dev{Bus: b.bus, Addr: addr}
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	if err := d.Tx(w, nil); err != nil {
		return &Error{Op: "write", Addr: addr, Reg: reg, Err: err}
	}
	return nil
}

func (b *I2CBus) ReadReg(addr uint16, reg uint8, n int) ([]byte, error) {
	d := i2c.Dev{Bus: b.bus, Addr: addr}
	out := make([]byte, n)
	if err := d.Tx([]byte{reg}, out); err != nil {
		return nil, &Error{Op: "read", Addr: addr, Reg: reg, Err: err}
	}
	return out, nil
}

func (b *I2CBus) Close() error { return b.bus.Close() }
