// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"
	"os"

	"github.com/relabs-tech/train_telemetry/internal/app"
	"github.com/relabs-tech/train_telemetry/internal/config"
)

func main() {
	log.Println("starting train-telemetry node")

	configPath := "train_config.txt"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if err := config.InitGlobal(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunTelemetryProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
