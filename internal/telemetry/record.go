// Package telemetry defines the fused per-cycle record and its wire
// rendering.
package telemetry

import (
	"bytes"
	"fmt"
	"math"

	"github.com/relabs-tech/train_telemetry/internal/env"
	"github.com/relabs-tech/train_telemetry/internal/gps"
	"github.com/relabs-tech/train_telemetry/internal/imu"
)

// Record is one fused telemetry sample, built fresh each cycle and
// serialized once.
type Record struct {
	DeviceID  string
	Env       env.Reading
	Inertial  imu.Reading
	Position  gps.Fix
	Vibration float64
}

// New assembles a record and derives the vibration magnitude.
func New(deviceID string, e env.Reading, in imu.Reading, fix gps.Fix) Record {
	return Record{
		DeviceID:  deviceID,
		Env:       e,
		Inertial:  in,
		Position:  fix,
		Vibration: Vibration(in),
	}
}

// Vibration is the acceleration vector magnitude with the 1 g gravity bias
// removed, clamped at zero.
func Vibration(in imu.Reading) float64 {
	m := math.Sqrt(in.AccelX*in.AccelX+in.AccelY*in.AccelY+in.AccelZ*in.AccelZ) - 1.0
	if m < 0 {
		m = 0
	}
	return m
}

// Topic returns the publish topic for a device.
func Topic(deviceID string) string { return "train/data/" + deviceID }

// MarshalJSON renders the fixed payload schema. Decimal precision is part
// of the wire contract: 2 places for physical quantities, 6 for
// coordinates, 3 for vibration and acceleration, 0 for gas resistance.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b,
		`{"deviceId":%q,`+
			`"temp":%.2f,"hum":%.2f,"pressure":%.2f,"gas":%.0f,`+
			`"lat":%.6f,"lng":%.6f,"speed":%.2f,`+
			`"vibration":%.3f,"accel_x":%.3f,"accel_y":%.3f,"accel_z":%.3f}`,
		r.DeviceID,
		r.Env.Temperature, r.Env.Humidity, r.Env.Pressure, r.Env.GasResistance,
		r.Position.Latitude, r.Position.Longitude, r.Position.SpeedKmh,
		r.Vibration, r.Inertial.AccelX, r.Inertial.AccelY, r.Inertial.AccelZ)
	return b.Bytes(), nil
}
