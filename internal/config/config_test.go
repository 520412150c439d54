package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "train_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `DEVICE_ID=train-001
MQTT_BROKER=tcp://192.168.0.102:1883
I2C_BUS=/dev/i2c-1
GPS_SERIAL_PORT=/dev/serial0
GPS_BAUD_RATE=9600
SENSOR_READ_INTERVAL_MS=5000
`

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `# train telemetry node
DEVICE_ID=train-042
MQTT_BROKER=tcp://broker.local:1883
MQTT_CLIENT_ID_TELEMETRY=node-42
TOPIC_TELEMETRY=fleet/42/data

I2C_BUS=/dev/i2c-1
BME680_I2C_ADDR=0x77
MPU6050_I2C_ADDR=0x69

GPS_SERIAL_PORT=/dev/ttyAMA0
GPS_BAUD_RATE=9600
GPS_READ_TIMEOUT_MS=800

SENSOR_READ_INTERVAL_MS=2000
HEALTH_LOG_INTERVAL_MS=30000
WEB_SERVER_PORT=8080
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DeviceID != "train-042" {
		t.Errorf("DeviceID = %q", cfg.DeviceID)
	}
	if cfg.MQTTBroker != "tcp://broker.local:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.MQTTClientIDTelemetry != "node-42" {
		t.Errorf("MQTTClientIDTelemetry = %q", cfg.MQTTClientIDTelemetry)
	}
	if cfg.TopicTelemetry != "fleet/42/data" {
		t.Errorf("TopicTelemetry = %q", cfg.TopicTelemetry)
	}
	if cfg.BME680Addr != 0x77 || cfg.MPU6050Addr != 0x69 {
		t.Errorf("addresses = 0x%02X / 0x%02X", cfg.BME680Addr, cfg.MPU6050Addr)
	}
	if cfg.GPSSerialPort != "/dev/ttyAMA0" || cfg.GPSBaudRate != 9600 {
		t.Errorf("gps = %q @ %d", cfg.GPSSerialPort, cfg.GPSBaudRate)
	}
	if cfg.GPSReadTimeoutMS != 800 || cfg.SensorReadIntervalMS != 2000 {
		t.Errorf("timing = %d / %d", cfg.GPSReadTimeoutMS, cfg.SensorReadIntervalMS)
	}
	if cfg.HealthLogIntervalMS != 30000 || cfg.WebServerPort != 8080 {
		t.Errorf("health/web = %d / %d", cfg.HealthLogIntervalMS, cfg.WebServerPort)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BME680Addr != 0x76 {
		t.Errorf("default BME680Addr = 0x%02X, want 0x76", cfg.BME680Addr)
	}
	if cfg.MPU6050Addr != 0x68 {
		t.Errorf("default MPU6050Addr = 0x%02X, want 0x68", cfg.MPU6050Addr)
	}
	if cfg.GPSReadTimeoutMS != 1000 {
		t.Errorf("default GPSReadTimeoutMS = %d, want 1000", cfg.GPSReadTimeoutMS)
	}
	if cfg.HealthLogIntervalMS != 60000 {
		t.Errorf("default HealthLogIntervalMS = %d, want 60000", cfg.HealthLogIntervalMS)
	}
	if cfg.TopicTelemetry != "train/data/train-001" {
		t.Errorf("derived topic = %q, want train/data/train-001", cfg.TopicTelemetry)
	}
}

func TestLoadRejectsMissingRequiredKeys(t *testing.T) {
	required := []string{
		"DEVICE_ID", "MQTT_BROKER", "I2C_BUS",
		"GPS_SERIAL_PORT", "GPS_BAUD_RATE", "SENSOR_READ_INTERVAL_MS",
	}
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			var b strings.Builder
			for _, line := range strings.Split(strings.TrimSpace(minimalConfig), "\n") {
				if strings.HasPrefix(line, key+"=") {
					continue
				}
				b.WriteString(line + "\n")
			}
			if _, err := Load(writeConfig(t, b.String())); err == nil {
				t.Fatalf("Load should fail without %s", key)
			}
		})
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+"SPI_BUS=/dev/spidev0.0\n")); err == nil {
		t.Fatal("Load should reject unknown keys")
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+"not a key value pair\n")); err == nil {
		t.Fatal("Load should reject lines without =")
	}
}

func TestLoadRejectsGPSWindowLongerThanCycle(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"GPS_READ_TIMEOUT_MS=5000\n"))
	if err == nil {
		t.Fatal("Load should reject a GPS read window >= the cycle interval")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}
