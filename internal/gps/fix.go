package gps

// Fix is a single satellite-positioning solution. Valid=false means the
// receiver has not resolved a position; the coordinate fields then carry
// the fixed fallback location and must not be trusted.
type Fix struct {
	Valid      bool    `json:"valid"`
	Latitude   float64 `json:"lat"`        // decimal degrees, south negative
	Longitude  float64 `json:"lng"`        // decimal degrees, west negative
	SpeedKmh   float64 `json:"speed_kmh"`  // speed over ground
	CourseDeg  float64 `json:"course_deg"` // course over ground
	AltitudeM  float64 `json:"altitude_m"`
	Satellites int     `json:"satellites"`
	Time       string  `json:"time,omitempty"` // raw NMEA UTC time, e.g. "120000"
	Date       string  `json:"date,omitempty"` // raw NMEA date, e.g. "010124"
}

// NoFix is the record returned when no fix completes within a read window.
// The coordinates are an arbitrary fixed location kept only for continuity
// of the downstream payload shape.
func NoFix() Fix {
	return Fix{
		Valid:     false,
		Latitude:  21.028511,
		Longitude: 105.804817,
		AltitudeM: 10.0,
	}
}
