package app

import (
	"log"
	"time"
)

// RunHealthReporter periodically logs process status. It runs beside the
// fusion loop but only reads the publisher's atomic connectivity flag and
// the fuser's dropped counter, so it needs no locking.
func RunHealthReporter(pub Publisher, f *Fuser, interval time.Duration) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		state := "disconnected"
		if pub.IsConnected() {
			state = "connected"
		}
		log.Printf("system status [uptime %s]: MQTT %s, dropped records: %d",
			time.Since(start).Round(time.Second), state, f.Dropped())
	}
}
