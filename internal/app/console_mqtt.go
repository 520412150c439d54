package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/train_telemetry/internal/config"
)

// telemetryPayload mirrors the published record schema for display.
type telemetryPayload struct {
	DeviceID  string  `json:"deviceId"`
	Temp      float64 `json:"temp"`
	Hum       float64 `json:"hum"`
	Pressure  float64 `json:"pressure"`
	Gas       float64 `json:"gas"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Speed     float64 `json:"speed"`
	Vibration float64 `json:"vibration"`
	AccelX    float64 `json:"accel_x"`
	AccelY    float64 `json:"accel_y"`
	AccelZ    float64 `json:"accel_z"`
}

// RunConsoleMQTT subscribes to the telemetry topic and prints each record.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicTelemetry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var t telemetryPayload
		if err := json.Unmarshal(msg.Payload(), &t); err != nil {
			log.Printf("console: telemetry unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[DATA] %s  temp=%5.2f°C hum=%5.2f%% press=%7.2fhPa  lat=%.6f lng=%.6f speed=%5.2fkm/h  vib=%.3fg accel=(%.3f %.3f %.3f)\n",
			t.DeviceID, t.Temp, t.Hum, t.Pressure, t.Lat, t.Lng, t.Speed,
			t.Vibration, t.AccelX, t.AccelY, t.AccelZ,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTelemetry)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
