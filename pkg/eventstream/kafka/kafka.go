// Package kafka publishes memory events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/stackpile/graphzep/pkg/eventstream"
)

// Publisher writes memory events to a Kafka topic, keyed by group id so
// consumers see per-group ordering.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic memory events are written to.
	Topic string

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// NewPublisher creates a new Kafka eventstream publisher.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if c.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(c.Brokers...),
		Topic:    c.Topic,
		Balancer: &kafka.Hash{},
	}

	c.Logger.Info("configured kafka publisher", "brokers", c.Brokers, "topic", c.Topic)

	return &Publisher{
		writer: writer,
		logger: c.Logger,
	}, nil
}

// PublishMemory writes one event to the topic.
func (p *Publisher) PublishMemory(ctx context.Context, event *eventstream.MemoryEvent) error {
	if event == nil {
		return eventstream.ErrNilMemoryEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling memory event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.GroupID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing memory event: %w", err)
	}

	p.logger.Debug("published memory event",
		"event_type", event.EventType,
		"event_id", event.EventID,
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
