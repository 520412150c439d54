package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/train_telemetry/internal/bus"
	"github.com/relabs-tech/train_telemetry/internal/config"
	"github.com/relabs-tech/train_telemetry/internal/gps"
	"github.com/relabs-tech/train_telemetry/internal/sensors"
	"github.com/relabs-tech/train_telemetry/internal/telemetry"
)

// sensorcheck probes every sensor once and prints the decoded values.
// Useful on the bench to verify wiring before starting the producer.
func main() {
	configPath := "train_config.txt"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if err := config.InitGlobal(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	i2cBus, err := bus.OpenI2C(cfg.I2CBus)
	if err != nil {
		log.Fatalf("open I2C bus: %v", err)
	}
	defer i2cBus.Close()

	bme := sensors.NewBME680(i2cBus, cfg.BME680Addr)
	if err := bme.Init(); err != nil {
		log.Printf("BME680 init failed: %v", err)
	}
	e := bme.Read()
	fmt.Printf("env (ready=%v, variant=%s): %.2f°C  %.2f hPa  %.2f%%RH\n",
		bme.Ready(), bme.Variant(), e.Temperature, e.Pressure, e.Humidity)

	mpu := sensors.NewMPU6050(i2cBus, cfg.MPU6050Addr)
	if err := mpu.Init(); err != nil {
		log.Printf("MPU6050 init failed: %v", err)
	}
	in := mpu.Read()
	fmt.Printf("imu (ready=%v): accel=(%.3f %.3f %.3f)g  gyro=(%.2f %.2f %.2f)°/s  %.1f°C  vibration=%.3f\n",
		mpu.Ready(), in.AccelX, in.AccelY, in.AccelZ,
		in.GyroX, in.GyroY, in.GyroZ, in.Temperature, telemetry.Vibration(in))

	var parser *gps.Parser
	if sr, err := gps.OpenSerial(cfg.GPSSerialPort, uint(cfg.GPSBaudRate)); err != nil {
		log.Printf("GPS serial open failed: %v", err)
		parser = gps.NewParser(nil)
	} else {
		defer sr.Close()
		parser = gps.NewParser(sr)
	}
	fix := parser.Read(time.Duration(cfg.GPSReadTimeoutMS) * time.Millisecond)
	fmt.Printf("gps: valid=%v lat=%.6f lng=%.6f speed=%.2f km/h sats=%d\n",
		fix.Valid, fix.Latitude, fix.Longitude, fix.SpeedKmh, fix.Satellites)
}
