package env

// Reading is one compensated environmental sample.
type Reading struct {
	Temperature   float64 `json:"temp_c"`       // °C
	Pressure      float64 `json:"pressure_hpa"` // hPa
	Humidity      float64 `json:"humidity_rh"`  // %RH, 0 for chips without a humidity cell
	GasResistance float64 `json:"gas_ohm"`      // Ω, fixed 0 (heater profile not driven)
}

// Placeholder is the reading substituted when the sensor is absent or the
// bus transaction fails, so downstream publishing keeps flowing. The values
// are arbitrary "reasonable room" constants, not measurements.
func Placeholder() Reading {
	return Reading{
		Temperature:   25.0,
		Pressure:      1013.25,
		Humidity:      50.0,
		GasResistance: 0.0,
	}
}
