// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors holds the register-level decoders for the environmental
// sensor (BME680/BME280/BMP280) and the inertial sensor (MPU6050).
package sensors

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/train_telemetry/internal/bus"
	"github.com/relabs-tech/train_telemetry/internal/env"
)

// I2C addresses.
const (
	BME680AddrPrimary   = 0x76
	BME680AddrSecondary = 0x77
)

// BME680/BME280 registers.
const (
	bmeRegChipID   = 0xD0
	bmeRegCtrlHum  = 0x72
	bmeRegCtrlMeas = 0x74
	bmeRegPressMSB = 0xF7 // start of the 8-byte press/temp/hum raw block
	bmeRegCalib00  = 0x88 // temperature + pressure coefficients, 26 bytes
	bmeRegCalibHum = 0xE1 // humidity coefficients, 7 bytes

	bmeChipIDBME680 = 0x61
	bmeChipIDBME280 = 0x60
	bmeChipIDBMP280 = 0x58

	// osrs_t=x1, osrs_p=x1, mode=forced
	bmeCtrlMeasForced = 0x25
	// humidity oversampling x1
	bmeCtrlHumOSRx1 = 0x01
)

// Variant classifies the detected chip, decided once at Init and never
// re-evaluated per read.
type Variant int

const (
	VariantUnknown    Variant = iota // unrecognized chip ID, proceed best-effort
	VariantFull                      // BME280/BME680: temperature, pressure, humidity
	VariantNoHumidity                // BMP280: no humidity cell
)

func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantNoHumidity:
		return "no-humidity"
	default:
		return "unknown"
	}
}

// bmeCalib holds the per-device compensation coefficients, read once at
// Init and immutable afterwards.
type bmeCalib struct {
	digT1 uint16
	digT2 int16
	digT3 int16

	digP1 uint16
	digP2 int16
	digP3 int16
	digP4 int16
	digP5 int16
	digP6 int16
	digP7 int16
	digP8 int16
	digP9 int16

	digH1 uint8
	digH2 int16
	digH3 uint8
	digH4 int16
	digH5 int16
	digH6 int8
}

// BME680 decodes the environmental sensor. It owns its device address,
// variant and calibration for the lifetime of the process.
type BME680 struct {
	bus     bus.RegisterBus
	addr    uint16
	variant Variant
	chipID  byte
	calib   bmeCalib
	ready   bool

	settle time.Duration // conversion wait after the forced trigger
}

// NewBME680 creates a decoder on the given bus and address. Call Init
// before Read.
func NewBME680(b bus.RegisterBus, addr uint16) *BME680 {
	return &BME680{bus: b, addr: addr, settle: 50 * time.Millisecond}
}

// Init detects the chip variant, loads the calibration block and writes
// the oversampling/mode configuration. An unrecognized chip ID is not an
// error; a terminal bus failure is.
func (d *BME680) Init() error {
	log.Printf("BME680: initializing at address 0x%02X", d.addr)
	time.Sleep(2 * d.settle)

	var chipID byte
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		var raw []byte
		raw, err = d.bus.ReadReg(d.addr, bmeRegChipID, 1)
		if err == nil {
			chipID = raw[0]
			break
		}
		log.Printf("BME680: chip ID read attempt %d/3 failed: %v", attempt, err)
		time.Sleep(d.settle)
	}
	if err != nil {
		return fmt.Errorf("read chip ID: %w", err)
	}

	d.chipID = chipID
	switch chipID {
	case bmeChipIDBME680:
		d.variant = VariantFull
		log.Printf("BME680: detected BME680 (chip ID 0x%02X), basic mode", chipID)
	case bmeChipIDBME280:
		d.variant = VariantFull
		log.Printf("BME680: detected BME280 (chip ID 0x%02X)", chipID)
	case bmeChipIDBMP280:
		d.variant = VariantNoHumidity
		log.Printf("BME680: detected BMP280 (chip ID 0x%02X), no humidity cell", chipID)
	default:
		d.variant = VariantUnknown
		log.Printf("BME680: unknown chip ID 0x%02X, continuing best-effort", chipID)
	}

	if err := d.readCalibration(); err != nil {
		return fmt.Errorf("read calibration: %w", err)
	}

	if d.variant == VariantFull {
		if err := d.bus.WriteReg(d.addr, bmeRegCtrlHum, []byte{bmeCtrlHumOSRx1}); err != nil {
			return fmt.Errorf("configure humidity oversampling: %w", err)
		}
	}
	if err := d.bus.WriteReg(d.addr, bmeRegCtrlMeas, []byte{bmeCtrlMeasForced}); err != nil {
		return fmt.Errorf("configure measurement: %w", err)
	}

	d.ready = true
	log.Printf("BME680: initialized at address 0x%02X (variant %s)", d.addr, d.variant)
	return nil
}

// Ready reports whether Init completed. It is the only way to tell live
// readings from placeholder readings.
func (d *BME680) Ready() bool { return d.ready }

// Variant returns the chip classification decided at Init.
func (d *BME680) Variant() Variant { return d.variant }

func (d *BME680) readCalibration() error {
	raw, err := d.bus.ReadReg(d.addr, bmeRegCalib00, 26)
	if err != nil {
		return err
	}

	u16 := func(lo, hi byte) uint16 { return uint16(hi)<<8 | uint16(lo) }
	c := &d.calib
	c.digT1 = u16(raw[0], raw[1])
	c.digT2 = int16(u16(raw[2], raw[3]))
	c.digT3 = int16(u16(raw[4], raw[5]))

	c.digP1 = u16(raw[6], raw[7])
	c.digP2 = int16(u16(raw[8], raw[9]))
	c.digP3 = int16(u16(raw[10], raw[11]))
	c.digP4 = int16(u16(raw[12], raw[13]))
	c.digP5 = int16(u16(raw[14], raw[15]))
	c.digP6 = int16(u16(raw[16], raw[17]))
	c.digP7 = int16(u16(raw[18], raw[19]))
	c.digP8 = int16(u16(raw[20], raw[21]))
	c.digP9 = int16(u16(raw[22], raw[23]))

	c.digH1 = raw[25]

	if d.variant == VariantFull {
		hraw, err := d.bus.ReadReg(d.addr, bmeRegCalibHum, 7)
		if err != nil {
			return err
		}
		c.digH2 = int16(u16(hraw[0], hraw[1]))
		c.digH3 = hraw[2]
		c.digH4 = int16(hraw[3])<<4 | int16(hraw[4]&0x0F)
		c.digH5 = int16(hraw[5])<<4 | int16(hraw[4]>>4)
		c.digH6 = int8(hraw[6])
	}

	log.Printf("BME680: calibration data loaded")
	return nil
}

// Read triggers a forced measurement, waits out the conversion time and
// compensates the raw block. It never fails outward: on a bus error it
// returns the documented placeholder reading so downstream publishing
// keeps flowing. Use Ready to tell live data from placeholder data.
func (d *BME680) Read() env.Reading {
	if !d.ready {
		return env.Placeholder()
	}

	if err := d.bus.WriteReg(d.addr, bmeRegCtrlMeas, []byte{bmeCtrlMeasForced}); err != nil {
		log.Printf("BME680: failed to trigger measurement: %v", err)
		return env.Placeholder()
	}

	time.Sleep(d.settle)

	raw, err := d.bus.ReadReg(d.addr, bmeRegPressMSB, 8)
	if err != nil {
		log.Printf("BME680: failed to read raw block: %v", err)
		return env.Placeholder()
	}

	adcP := int32(raw[0])<<12 | int32(raw[1])<<4 | int32(raw[2])>>4
	adcT := int32(raw[3])<<12 | int32(raw[4])<<4 | int32(raw[5])>>4
	adcH := int32(raw[6])<<8 | int32(raw[7])

	// temperature first: pressure and humidity reuse its fine value
	temp, tFine := d.calib.compensateTemperature(adcT)
	r := env.Reading{
		Temperature: temp,
		Pressure:    d.calib.compensatePressure(adcP, tFine),
	}
	if d.variant == VariantFull {
		r.Humidity = d.calib.compensateHumidity(adcH, tFine)
	}
	return r
}

// compensateTemperature converts a raw temperature ADC value to °C and
// returns the intermediate fine value in the same cycle's units.
func (c *bmeCalib) compensateTemperature(adcT int32) (float64, int32) {
	var1 := (((adcT >> 3) - (int32(c.digT1) << 1)) * int32(c.digT2)) >> 11
	var2 := (((((adcT >> 4) - int32(c.digT1)) * ((adcT >> 4) - int32(c.digT1))) >> 12) *
		int32(c.digT3)) >> 14

	tFine := var1 + var2
	t := (tFine*5 + 128) >> 8
	return float64(t) / 100.0, tFine
}

// compensatePressure converts a raw pressure ADC value to hPa using the
// 64-bit fixed-point formula. Returns 0 when the denominator term is zero.
func (c *bmeCalib) compensatePressure(adcP, tFine int32) float64 {
	var1 := int64(tFine) - 128000
	var2 := var1 * var1 * int64(c.digP6)
	var2 += (var1 * int64(c.digP5)) << 17
	var2 += int64(c.digP4) << 35
	var1 = ((var1 * var1 * int64(c.digP3)) >> 8) + ((var1 * int64(c.digP2)) << 12)
	var1 = ((int64(1) << 47) + var1) * int64(c.digP1) >> 33

	if var1 == 0 {
		return 0 // avoid division by zero
	}

	p := int64(1048576 - adcP)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.digP9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.digP8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.digP7) << 4)

	return float64(p) / 256.0 / 100.0 // Pa to hPa
}

// compensateHumidity converts a raw humidity ADC value to %RH, clamped to
// [0, 100] regardless of input.
func (c *bmeCalib) compensateHumidity(adcH, tFine int32) float64 {
	v := tFine - 76800

	x := ((adcH << 14) - (int32(c.digH4) << 20) - (int32(c.digH5) * v) + 16384) >> 15
	y := (v * int32(c.digH6)) >> 10
	y = (y * (((v * int32(c.digH3)) >> 11) + 32768)) >> 10
	y = ((y+2097152)*int32(c.digH2) + 8192) >> 14

	v = x * y
	v -= ((((v >> 15) * (v >> 15)) >> 7) * int32(c.digH1)) >> 4
	if v < 0 {
		v = 0
	}
	if v > 419430400 {
		v = 419430400
	}
	return float64(v>>12) / 1024.0
}
