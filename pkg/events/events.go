// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/scorecard/pkg/lifecycle"
)

// Event is a domain occurrence keyed by the tenant it belongs to.
type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers events.
type Publisher interface {
	Start(lc *lifecycle.Coordinator) error
	Publish(ctx context.Context, events ...Event) error
}

// KafkaPublisher lazily manages one writer per topic.
type KafkaPublisher struct {
	brokers []string
	topic   string
	logger  *slog.Logger
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// New creates a publisher for the configured brokers, or a no-op publisher when none are set.
func New(cfg *Config, logger *slog.Logger) Publisher {
	logger = logger.With("system", "events")
	if !cfg.Enabled() {
		logger.Info("event publishing disabled")
		return Noop()
	}
	return &KafkaPublisher{
		brokers: cfg.Brokers,
		topic:   cfg.Topic,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

func (p *KafkaPublisher) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting event publisher", "brokers", p.brokers, "topic", p.topic)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.Close(); err != nil {
			p.logger.Error("event writer close failed", "error", err)
			return
		}
		p.logger.Info("event writers closed")
	})

	return nil
}

// Publish writes events to the configured topic, keyed so one tenant's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		if e.OccurredAt.IsZero() {
			e.OccurredAt = time.Now().UTC()
		}
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		})
	}

	if err := p.writerForTopic(p.topic).WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

type noop struct{}

// Noop returns a publisher that discards events.
func Noop() Publisher {
	return noop{}
}

func (noop) Start(*lifecycle.Coordinator) error { return nil }

func (noop) Publish(context.Context, ...Event) error { return nil }
