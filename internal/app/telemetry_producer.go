// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/train_telemetry/internal/bus"
	"github.com/relabs-tech/train_telemetry/internal/config"
	"github.com/relabs-tech/train_telemetry/internal/gps"
	"github.com/relabs-tech/train_telemetry/internal/sensors"
)

// RunTelemetryProducer wires the decoders, GPS parser and MQTT transport
// together and drives the fusion loop. Sensor init failures are non-fatal:
// a decoder that failed to initialize serves its documented placeholder
// reading every cycle. Only the bus/config layer itself is fatal.
func RunTelemetryProducer() error {
	cfg := config.Get()
	log.Printf("starting telemetry producer for device %s", cfg.DeviceID)

	i2cBus, err := bus.OpenI2C(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open I2C bus: %w", err)
	}
	defer i2cBus.Close()
	log.Printf("I2C bus %q ready", cfg.I2CBus)

	bme := sensors.NewBME680(i2cBus, cfg.BME680Addr)
	if err := bme.Init(); err != nil {
		log.Printf("WARNING: BME680 init failed, will publish placeholder data: %v", err)
	}

	mpu := sensors.NewMPU6050(i2cBus, cfg.MPU6050Addr)
	if err := mpu.Init(); err != nil {
		log.Printf("WARNING: MPU6050 init failed, will publish placeholder data: %v", err)
	}

	var parser *gps.Parser
	if sr, err := gps.OpenSerial(cfg.GPSSerialPort, uint(cfg.GPSBaudRate)); err != nil {
		log.Printf("WARNING: GPS serial open failed, will publish placeholder data: %v", err)
		parser = gps.NewParser(nil)
	} else {
		defer sr.Close()
		parser = gps.NewParser(sr)
		log.Printf("GPS serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)
	}

	pub := newMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientIDTelemetry)
	defer pub.Disconnect()

	fuser := NewFuser(
		cfg.DeviceID,
		cfg.TopicTelemetry,
		bme,
		mpu,
		parser,
		pub,
		time.Duration(cfg.GPSReadTimeoutMS)*time.Millisecond,
	)

	go RunHealthReporter(pub, fuser, time.Duration(cfg.HealthLogIntervalMS)*time.Millisecond)

	log.Printf("publishing to topic %s every %d ms", cfg.TopicTelemetry, cfg.SensorReadIntervalMS)
	fuser.Run(time.Duration(cfg.SensorReadIntervalMS) * time.Millisecond)
	return nil
}
