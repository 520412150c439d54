package app

import (
	"log"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttPublisher adapts a paho client to the Publisher interface. The
// connected flag is written only by the paho callbacks and read atomically
// by the fusion loop and the health reporter, so no broader locking is
// needed.
type mqttPublisher struct {
	client    mqtt.Client
	connected atomic.Bool
}

// newMQTTPublisher connects to the broker in the background. The node
// starts its cycles regardless; records are dropped until the session is
// up.
func newMQTTPublisher(broker, clientID string) *mqttPublisher {
	p := &mqttPublisher{}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(func(mqtt.Client) {
			p.connected.Store(true)
			log.Printf("MQTT connected to broker %s", broker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			p.connected.Store(false)
			log.Printf("MQTT connection lost: %v", err)
		})

	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	// wait briefly so the first cycle usually has a live session; the
	// OnConnect handler flips the flag whenever the session comes up
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("MQTT connect: %v (retrying in background)", token.Error())
	}
	return p
}

func (p *mqttPublisher) IsConnected() bool { return p.connected.Load() }

func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

func (p *mqttPublisher) Disconnect() { p.client.Disconnect(250) }
