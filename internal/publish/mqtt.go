package publish

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/time/rate"

	"gnssfix/internal/nmea"
)

// MQTTConfig configures the fix publisher.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string

	// MaxRateHz caps how often snapshots actually reach the broker. A
	// receiver emitting a full sentence cycle several times a second would
	// otherwise flood it with near-identical fixes.
	MaxRateHz float64
}

// sender is the subset of mqtt.Client the publisher needs; tests inject
// fakes through it.
type sender interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes fix snapshots as retained JSON messages on a single topic,
// so subscribers get the latest fix immediately on connect.
type MQTT struct {
	client  sender
	topic   string
	limiter *rate.Limiter
}

func NewMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return newMQTT(client, cfg), nil
}

func newMQTT(client sender, cfg MQTTConfig) *MQTT {
	topic := cfg.Topic
	if topic == "" {
		topic = "gnssfix/fix"
	}
	maxRate := cfg.MaxRateHz
	if maxRate <= 0 {
		maxRate = 1
	}

	return &MQTT{
		client:  client,
		topic:   topic,
		limiter: rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// Publish sends one snapshot. Calls beyond the configured rate are dropped
// without error; the next allowed publish carries the then-current fix.
func (p *MQTT) Publish(snap nmea.Snapshot) error {
	if !p.limiter.Allow() {
		return nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", token.Error())
	}
	return nil
}

func (p *MQTT) Close() {
	p.client.Disconnect(250)
}
