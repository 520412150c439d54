// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gps frames NMEA sentences from a serial byte stream and extracts
// position fixes.
package gps

import (
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// ByteReader is the serial byte stream the parser consumes. ok=false means
// no byte arrived within the timeout.
type ByteReader interface {
	ReadByte(timeout time.Duration) (byte, bool)
}

// ErrNoFix is returned by LastFix until a valid fix has ever been parsed.
var ErrNoFix = errors.New("gps: no fix received yet")

const (
	// maxSentenceLen bounds the line buffer; bytes past it are dropped
	// until the next terminator.
	maxSentenceLen = 128

	knotsToKmh  = 1.852
	byteTimeout = 100 * time.Millisecond
)

// Parser is a single-consumer NMEA line framer with a last-known-fix cache.
// Position comes from $GPRMC; $GPGGA contributes altitude and satellite
// count; every other sentence type is framed and discarded.
type Parser struct {
	r    ByteReader
	line []byte

	lastFix Fix
	haveFix bool

	// most recent $GPGGA data, folded into the next valid RMC fix
	altitude   float64
	satellites int
	haveGGA    bool
}

// NewParser wraps a byte stream. A nil reader is allowed and always
// reports no fix (used when the serial port failed to open).
func NewParser(r ByteReader) *Parser {
	return &Parser{r: r, line: make([]byte, 0, maxSentenceLen)}
}

// Read pumps the stream until a valid fix is parsed or the timeout
// expires. On timeout it returns the no-fix record; callers must treat
// Valid=false as authoritative, not the coordinate values.
func (p *Parser) Read(timeout time.Duration) Fix {
	if p.r == nil {
		return NoFix()
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		wait := byteTimeout
		if rem := time.Until(deadline); rem < wait {
			wait = rem
		}
		c, ok := p.r.ReadByte(wait)
		if !ok {
			continue
		}

		if c != '\n' {
			if len(p.line) < maxSentenceLen-1 {
				p.line = append(p.line, c)
			}
			continue
		}

		line := strings.TrimSuffix(string(p.line), "\r")
		p.line = p.line[:0]

		if fix, ok := p.handleSentence(line); ok {
			return fix
		}
	}

	log.Printf("gps: no fix within %v, using placeholder data", timeout)
	return NoFix()
}

// LastFix returns the most recent valid fix, independent of the outcome of
// the current cycle, or ErrNoFix if the cache never held one.
func (p *Parser) LastFix() (Fix, error) {
	if !p.haveFix {
		return Fix{}, ErrNoFix
	}
	return p.lastFix, nil
}

func (p *Parser) handleSentence(line string) (Fix, bool) {
	switch {
	case strings.HasPrefix(line, "$GPRMC"):
		fix, ok := parseRMC(line)
		if !ok {
			return Fix{}, false
		}
		if p.haveGGA {
			fix.AltitudeM = p.altitude
			fix.Satellites = p.satellites
		}
		p.lastFix = fix
		p.haveFix = true
		log.Printf("gps: fix lat=%.6f lng=%.6f speed=%.1f km/h", fix.Latitude, fix.Longitude, fix.SpeedKmh)
		return fix, true

	case strings.HasPrefix(line, "$GPGGA"):
		p.parseGGA(line)
	}
	return Fix{}, false
}

// parseRMC extracts a fix from a $GPRMC sentence:
// $GPRMC,time,status,lat,N/S,lon,E/W,speed,course,date,mag,E/W,mode*cs
// A status other than "A" means no fix yet; that is a normal outcome, not
// an error.
func parseRMC(line string) (Fix, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 9 {
		return Fix{}, false
	}
	if fields[2] != "A" {
		return Fix{}, false
	}

	fix := Fix{
		Valid:     true,
		Time:      fields[1],
		Latitude:  parseCoordinate(fields[3], fields[4] == "S"),
		Longitude: parseCoordinate(fields[5], fields[6] == "W"),
		SpeedKmh:  parseFloat(fields[7]) * knotsToKmh,
		CourseDeg: parseFloat(fields[8]),
	}
	if len(fields) > 9 {
		fix.Date = fields[9]
	}
	return fix, true
}

// parseGGA tracks altitude and satellites-in-use from $GPGGA. The sentence
// is checksum-validated by the NMEA library; a bad line is just skipped.
func (p *Parser) parseGGA(line string) {
	s, err := nmea.Parse(line)
	if err != nil {
		return
	}
	gga, ok := s.(nmea.GGA)
	if !ok || gga.FixQuality == nmea.Invalid {
		return
	}
	p.altitude = gga.Altitude
	p.satellites = int(gga.NumSatellites)
	p.haveGGA = true
}

// parseCoordinate converts the native DDMM.MMMM (or DDDMM.MMMM for
// longitude) format to decimal degrees: whole degrees from the /100
// quotient, the minutes remainder divided by 60, hemisphere flips sign.
func parseCoordinate(s string, negative bool) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	v /= 100.0
	deg := math.Trunc(v)
	dd := deg + (v-deg)*100.0/60.0
	if negative {
		dd = -dd
	}
	return dd
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
