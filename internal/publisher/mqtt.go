// Package publisher fans the daily summary out to an MQTT broker.
package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"energia_assistant/internal/domain"
	"energia_assistant/pkg/logger"
)

// Config holds the broker connection settings
type Config struct {
	Broker      string // tcp://host:1883
	ClientID    string
	TopicPrefix string
	QoS         byte
	Retained    bool
}

// Publisher publishes summaries. A nil *Publisher is a no-op.
type Publisher struct {
	client mqtt.Client
	config Config
}

// SummaryMessage is the MQTT payload
type SummaryMessage struct {
	Timestamp  time.Time           `json:"timestamp"`
	PlantID    string              `json:"plant_id,omitempty"`
	InverterSN string              `json:"inverter_sn"`
	Date       string              `json:"date,omitempty"`
	Summary    domain.DailySummary `json:"resumo"`
}

// New connects to the broker. It returns (nil, nil) when no broker is set.
func New(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, nil
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}

	logger.Infof("MQTT publisher connected to %s", cfg.Broker)
	return &Publisher{client: client, config: cfg}, nil
}

// Topic returns the topic for an inverter
func Topic(prefix, inverterSN string) string {
	if inverterSN == "" {
		inverterSN = "desconhecido"
	}
	return fmt.Sprintf("%s/%s/resumo", strings.TrimRight(prefix, "/"), inverterSN)
}

// PublishSummary sends the summary of series
func (p *Publisher) PublishSummary(series domain.Series, s domain.DailySummary) error {
	if p == nil {
		return nil
	}
	msg := SummaryMessage{
		Timestamp:  time.Now().UTC(),
		InverterSN: series.InverterSN(),
		Summary:    s,
	}
	if series.Meta != nil {
		if series.Meta.PlantID != nil {
			msg.PlantID = *series.Meta.PlantID
		}
		if series.Meta.Date != nil {
			msg.Date = *series.Meta.Date
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	topic := Topic(p.config.TopicPrefix, msg.InverterSN)
	token := p.client.Publish(topic, p.config.QoS, p.config.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", topic, err)
	}
	logger.Debugf("Published summary to %s", topic)
	return nil
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
