package retry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shamroze153/FM-Portal/pkg/kafka"
)

// DLQMessage is a consumed record that could not be processed
type DLQMessage struct {
	OriginalTopic string
	OriginalKey   []byte
	Partition     int32
	Offset        int64
	// Payload is the original record value, republished byte for byte
	Payload []byte
	Headers map[string]string
	// Error is the reason the record was set aside
	Error        string
	Attempts     int
	MovedToDLQAt time.Time
	Source       string
}

// DLQPublisher publishes failed records to a dead letter topic
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
	DLQTopic(originalTopic string) string
}

// DLQConfig contains configuration for DLQ publishing
type DLQConfig struct {
	// Topic, when set, receives every dead letter regardless of origin
	Topic string
	// Suffix derives <original><suffix> when Topic is empty (default ".dlq")
	Suffix string
	// Source names the service in the dead letter headers
	Source string
}

// DefaultDLQConfig returns default DLQ configuration
func DefaultDLQConfig() DLQConfig {
	return DLQConfig{Suffix: ".dlq", Source: "unknown"}
}

// Producer is the subset of *kafka.Producer the DLQ needs
type Producer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// KafkaDLQPublisher republishes failed records with their failure context in headers
type KafkaDLQPublisher struct {
	producer Producer
	cfg      DLQConfig
	now      func() time.Time
}

// NewKafkaDLQPublisher creates a new Kafka DLQ publisher
func NewKafkaDLQPublisher(producer Producer, cfg DLQConfig) *KafkaDLQPublisher {
	def := DefaultDLQConfig()
	if cfg.Suffix == "" {
		cfg.Suffix = def.Suffix
	}
	if cfg.Source == "" {
		cfg.Source = def.Source
	}
	return &KafkaDLQPublisher{producer: producer, cfg: cfg, now: time.Now}
}

// PublishToDLQ writes msg to the dead letter topic and waits for the ack
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return errors.New("dlq message is nil")
	}
	msg.MovedToDLQAt = p.now().UTC()
	msg.Source = p.cfg.Source

	topic := p.DLQTopic(msg.OriginalTopic)
	if err := p.producer.Produce(ctx, &kafka.Message{
		Topic:     topic,
		Key:       msg.OriginalKey,
		Value:     msg.Payload,
		Headers:   dlqHeaders(msg),
		Timestamp: msg.MovedToDLQAt,
	}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// DLQTopic returns the dead letter topic for originalTopic
func (p *KafkaDLQPublisher) DLQTopic(originalTopic string) string {
	if p.cfg.Topic != "" {
		return p.cfg.Topic
	}
	return originalTopic + p.cfg.Suffix
}

func dlqHeaders(msg *DLQMessage) map[string]string {
	h := make(map[string]string, len(msg.Headers)+7)
	for k, v := range msg.Headers {
		h["original_"+k] = v
	}
	h["original_topic"] = msg.OriginalTopic
	h["original_partition"] = strconv.FormatInt(int64(msg.Partition), 10)
	h["original_offset"] = strconv.FormatInt(msg.Offset, 10)
	h["error"] = msg.Error
	h["attempts"] = strconv.Itoa(msg.Attempts)
	h["moved_to_dlq_at"] = msg.MovedToDLQAt.Format(time.RFC3339)
	h["source"] = msg.Source
	return h
}

// NoOpDLQPublisher drops dead letters (tests, or Kafka disabled)
type NoOpDLQPublisher struct{}

func (NoOpDLQPublisher) PublishToDLQ(context.Context, *DLQMessage) error { return nil }

func (NoOpDLQPublisher) DLQTopic(originalTopic string) string {
	return originalTopic + DefaultDLQConfig().Suffix
}
