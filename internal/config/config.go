package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Identity
	DeviceID string

	// MQTT
	MQTTBroker            string
	MQTTClientIDTelemetry string
	MQTTClientIDConsole   string
	MQTTClientIDWeb       string

	// Topics
	TopicTelemetry string // defaults to "train/data/<DEVICE_ID>"

	// I2C register bus
	I2CBus      string
	BME680Addr  uint16
	MPU6050Addr uint16

	// GPS
	GPSSerialPort    string
	GPSBaudRate      int
	GPSReadTimeoutMS int // per-cycle read window, must stay below the cycle interval

	// Timing
	SensorReadIntervalMS int // milliseconds
	HealthLogIntervalMS  int // milliseconds

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		BME680Addr:            0x76,
		MPU6050Addr:           0x68,
		GPSReadTimeoutMS:      1000,
		HealthLogIntervalMS:   60000,
		MQTTClientIDTelemetry: "train-telemetry-producer",
		MQTTClientIDConsole:   "train-telemetry-console",
		MQTTClientIDWeb:       "train-telemetry-web",
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if cfg.TopicTelemetry == "" {
		cfg.TopicTelemetry = "train/data/" + cfg.DeviceID
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Identity
	case "DEVICE_ID":
		c.DeviceID = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TELEMETRY":
		c.MQTTClientIDTelemetry = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_TELEMETRY":
		c.TopicTelemetry = value

	// I2C register bus
	case "I2C_BUS":
		c.I2CBus = value
	case "BME680_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid BME680_I2C_ADDR %q: %w", value, err)
		}
		c.BME680Addr = uint16(addr)
	case "MPU6050_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MPU6050_I2C_ADDR %q: %w", value, err)
		}
		c.MPU6050Addr = uint16(addr)

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate
	case "GPS_READ_TIMEOUT_MS":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_READ_TIMEOUT_MS %q: %w", value, err)
		}
		c.GPSReadTimeoutMS = timeout

	// Timing
	case "SENSOR_READ_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_READ_INTERVAL_MS %q: %w", value, err)
		}
		c.SensorReadIntervalMS = interval
	case "HEALTH_LOG_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HEALTH_LOG_INTERVAL_MS %q: %w", value, err)
		}
		c.HealthLogIntervalMS = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("DEVICE_ID is required")
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.I2CBus == "" {
		return fmt.Errorf("I2C_BUS is required")
	}
	if c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required")
	}
	if c.GPSBaudRate == 0 {
		return fmt.Errorf("GPS_BAUD_RATE is required")
	}
	if c.SensorReadIntervalMS == 0 {
		return fmt.Errorf("SENSOR_READ_INTERVAL_MS is required")
	}
	if c.GPSReadTimeoutMS >= c.SensorReadIntervalMS {
		return fmt.Errorf("GPS_READ_TIMEOUT_MS must be shorter than SENSOR_READ_INTERVAL_MS")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
