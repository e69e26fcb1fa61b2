package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/kafka"
	"github.com/shamroze153/FM-Portal/pkg/logger"
)

// EventPublisher defines the interface for publishing dispatch events
type EventPublisher interface {
	// Publish sends one committed event
	Publish(ctx context.Context, evt *domain.DispatchEvent) error
	// Close closes the event publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    *kafka.Producer
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "dispatch-events"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "dispatch-service"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = serviceName + "-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		BatchSize:     100,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// Publish publishes a dispatch event to Kafka
func (p *KafkaEventPublisher) Publish(ctx context.Context, evt *domain.DispatchEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(evt.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   string(evt.EventType),
			"event_id":     evt.EventID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
		Timestamp: evt.OccurredAt,
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.EventType, err)
	}
	return nil
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpEventPublisher drops every event
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) Publish(context.Context, *domain.DispatchEvent) error { return nil }

func (p *NoOpEventPublisher) Close() error { return nil }

// RecordingEventPublisher keeps published events in memory (tests, local runs)
type RecordingEventPublisher struct {
	mu     sync.Mutex
	events []*domain.DispatchEvent
	err    error
}

// NewRecordingEventPublisher creates a publisher that fails with err when err is non-nil
func NewRecordingEventPublisher(err error) *RecordingEventPublisher {
	return &RecordingEventPublisher{err: err}
}

func (p *RecordingEventPublisher) Publish(_ context.Context, evt *domain.DispatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *RecordingEventPublisher) Close() error { return nil }

// Events returns the events published so far
func (p *RecordingEventPublisher) Events() []*domain.DispatchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*domain.DispatchEvent, len(p.events))
	copy(out, p.events)
	return out
}

// eventEmitter builds envelopes and publishes them after commit. Failures
// are logged and never reach the caller.
type eventEmitter struct {
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

func newEventEmitter(publisher EventPublisher, log *logger.Logger) eventEmitter {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return eventEmitter{publisher: publisher, log: log, now: time.Now}
}

func (e eventEmitter) emit(ctx context.Context, eventType domain.EventType, fill func(*domain.DispatchEvent)) {
	evt := &domain.DispatchEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: e.now(),
		Version:    domain.EventVersion,
	}
	fill(evt)

	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.log.Warn("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.String("event_id", evt.EventID),
			zap.Error(err),
		)
	}
}

func (e eventEmitter) emitLedger(ctx context.Context, entry *domain.LedgerEntry) {
	if entry == nil {
		return
	}
	e.emit(ctx, domain.EventScoreAdjusted, func(evt *domain.DispatchEvent) {
		evt.LedgerEntry = entry
	})
}
