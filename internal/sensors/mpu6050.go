// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/train_telemetry/internal/bus"
	"github.com/relabs-tech/train_telemetry/internal/imu"
)

// I2C addresses.
const (
	MPU6050AddrDefault = 0x68
	MPU6050AddrAlt     = 0x69
)

// MPU6050 registers.
const (
	mpuRegPwrMgmt1   = 0x6B
	mpuRegWhoAmI     = 0x75
	mpuRegAccelXoutH = 0x3B // start of the 14-byte accel/temp/gyro burst

	mpuWhoAmIVal = 0x68
)

// Full-scale sensitivity at the power-on ranges (±2g, ±250°/s).
const (
	mpuAccelLSBPerG  = 16384.0
	mpuGyroLSBPerDPS = 131.0
)

// MPU6050 decodes the inertial sensor. It owns its device address and
// ready flag for the lifetime of the process.
type MPU6050 struct {
	bus   bus.RegisterBus
	addr  uint16
	ready bool

	wakeDelay time.Duration
}

// NewMPU6050 creates a decoder on the given bus and address. Call Init
// before Read.
func NewMPU6050(b bus.RegisterBus, addr uint16) *MPU6050 {
	return &MPU6050{bus: b, addr: addr, wakeDelay: 100 * time.Millisecond}
}

// Init clears the sleep bit and verifies the identity register. An
// identity mismatch is a warning only; only a bus failure is an error.
func (d *MPU6050) Init() error {
	if err := d.bus.WriteReg(d.addr, mpuRegPwrMgmt1, []byte{0x00}); err != nil {
		return fmt.Errorf("wake device: %w", err)
	}

	time.Sleep(d.wakeDelay)

	raw, err := d.bus.ReadReg(d.addr, mpuRegWhoAmI, 1)
	if err != nil {
		return fmt.Errorf("read WHO_AM_I: %w", err)
	}
	if raw[0] != mpuWhoAmIVal {
		log.Printf("MPU6050: unexpected WHO_AM_I 0x%02X (expected 0x%02X), continuing", raw[0], mpuWhoAmIVal)
	} else {
		log.Printf("MPU6050: WHO_AM_I verified: 0x%02X", raw[0])
	}

	d.ready = true
	log.Printf("MPU6050: initialized at address 0x%02X", d.addr)
	return nil
}

// Ready reports whether Init completed.
func (d *MPU6050) Ready() bool { return d.ready }

// Read issues one 14-byte burst read (3×accel, temp, 3×gyro as big-endian
// signed 16-bit pairs) and converts to physical units. It never fails
// outward: on a bus error it returns the documented at-rest placeholder.
func (d *MPU6050) Read() imu.Reading {
	if !d.ready {
		return imu.Placeholder()
	}

	raw, err := d.bus.ReadReg(d.addr, mpuRegAccelXoutH, 14)
	if err != nil {
		log.Printf("MPU6050: failed to read sensor data: %v", err)
		return imu.Placeholder()
	}

	be := func(hi, lo byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }

	return imu.Reading{
		AccelX: float64(be(raw[0], raw[1])) / mpuAccelLSBPerG,
		AccelY: float64(be(raw[2], raw[3])) / mpuAccelLSBPerG,
		AccelZ: float64(be(raw[4], raw[5])) / mpuAccelLSBPerG,

		// 340 LSB/°C with a 36.53 °C offset
		Temperature: float64(be(raw[6], raw[7]))/340.0 + 36.53,

		GyroX: float64(be(raw[8], raw[9])) / mpuGyroLSBPerDPS,
		GyroY: float64(be(raw[10], raw[11])) / mpuGyroLSBPerDPS,
		GyroZ: float64(be(raw[12], raw[13])) / mpuGyroLSBPerDPS,
	}
}
