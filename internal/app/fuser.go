// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/train_telemetry/internal/env"
	"github.com/relabs-tech/train_telemetry/internal/gps"
	"github.com/relabs-tech/train_telemetry/internal/imu"
	"github.com/relabs-tech/train_telemetry/internal/telemetry"
)

// Publisher is the publish transport the fusion loop hands records to.
// Delivery is at-most-once: a disconnected transport or failed publish
// drops the record, with no queue and no retry.
type Publisher interface {
	IsConnected() bool
	Publish(topic string, payload []byte) error
}

// EnvSource, InertialSource and PositionSource are the decoder slices the
// fusion loop needs. The decoder reads never fail; degraded sensors
// surface as placeholder readings or Valid=false fixes.
type EnvSource interface {
	Read() env.Reading
}

type InertialSource interface {
	Read() imu.Reading
}

type PositionSource interface {
	Read(timeout time.Duration) gps.Fix
}

// Fuser runs the periodic read, fuse and publish cycle. A single goroutine
// owns all decoder state; only the dropped counter is read from elsewhere
// (the health reporter).
type Fuser struct {
	deviceID   string
	topic      string
	envSrc     EnvSource
	imuSrc     InertialSource
	gpsSrc     PositionSource
	pub        Publisher
	gpsTimeout time.Duration

	dropped atomic.Uint64
}

func NewFuser(deviceID, topic string, e EnvSource, in InertialSource, g PositionSource, pub Publisher, gpsTimeout time.Duration) *Fuser {
	return &Fuser{
		deviceID:   deviceID,
		topic:      topic,
		envSrc:     e,
		imuSrc:     in,
		gpsSrc:     g,
		pub:        pub,
		gpsTimeout: gpsTimeout,
	}
}

// Cycle performs one read/fuse/publish pass and reports the record plus
// whether it was published.
func (f *Fuser) Cycle() (telemetry.Record, bool) {
	e := f.envSrc.Read()
	in := f.imuSrc.Read()
	fix := f.gpsSrc.Read(f.gpsTimeout)

	rec := telemetry.New(f.deviceID, e, in, fix)

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("telemetry marshal error: %v", err)
		return rec, false
	}
	log.Printf("sensor data: %s", payload)

	if !f.pub.IsConnected() {
		f.dropped.Add(1)
		log.Printf("publish transport disconnected, record dropped (%d total)", f.dropped.Load())
		return rec, false
	}
	if err := f.pub.Publish(f.topic, payload); err != nil {
		f.dropped.Add(1)
		log.Printf("publish error: %v, record dropped (%d total)", err, f.dropped.Load())
		return rec, false
	}
	return rec, true
}

// Run drives Cycle on the given period.
func (f *Fuser) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		f.Cycle()
	}
}

// Dropped returns the count of records dropped due to a disconnected
// transport or a failed publish.
func (f *Fuser) Dropped() uint64 { return f.dropped.Load() }
