package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"restaurantcore/pkg/domain"
)

// NoopPublisher drops every change.
type NoopPublisher struct{}

// Publish implements core.ChangePublisher.
func (NoopPublisher) Publish(context.Context, []domain.Change) error { return nil }

// LogPublisher writes one structured log line per change.
type LogPublisher struct {
	Logger *slog.Logger
}

// Publish implements core.ChangePublisher.
func (p LogPublisher) Publish(ctx context.Context, changes []domain.Change) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, change := range changes {
		logger.InfoContext(ctx, "change committed",
			slog.String("entity", string(change.Entity)),
			slog.String("action", string(change.Action)),
			slog.Int("id", change.ID),
		)
	}
	return nil
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends each change as a JSON envelope keyed by entity and id.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher writes to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is required")
	}
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}), nil
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish implements core.ChangePublisher.
func (p *KafkaPublisher) Publish(ctx context.Context, changes []domain.Change) error {
	if len(changes) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(changes))
	for _, change := range changes {
		ev, err := FromChange(change)
		if err != nil {
			return err
		}
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Entity + ":" + ev.ResourceID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event-id", Value: []byte(ev.ID)},
				{Key: "topic", Value: []byte(ev.Topic)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error { return p.writer.Close() }
