package imu

// Reading is one converted inertial sample.
type Reading struct {
	AccelX float64 `json:"accel_x"` // g
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`

	GyroX float64 `json:"gyro_x"` // °/s
	GyroY float64 `json:"gyro_y"`
	GyroZ float64 `json:"gyro_z"`

	Temperature float64 `json:"temp_c"` // °C, die temperature
}

// Placeholder is the reading substituted when the sensor is absent or the
// bus transaction fails: a device at rest lying flat, ~1 g on Z.
func Placeholder() Reading {
	return Reading{
		AccelX:      0.05,
		AccelY:      0.02,
		AccelZ:      1.0,
		Temperature: 25.0,
	}
}
