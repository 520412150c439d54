package main

import (
	"log"
	"os"

	"github.com/relabs-tech/train_telemetry/internal/app"
	"github.com/relabs-tech/train_telemetry/internal/config"
)

func main() {
	log.Println("starting train-telemetry console (MQTT subscriber)")

	configPath := "train_config.txt"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if err := config.InitGlobal(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
