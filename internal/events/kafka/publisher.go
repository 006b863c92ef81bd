// Package kafka publishes sync lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

const eventTypeSyncCompleted = "sync.completed"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.SyncCompleted) error {
	msg, err := newMessage(event)
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// newMessage keys by run ID so retries of the same run land on one partition.
func newMessage(event domain.SyncCompleted) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.RunID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeSyncCompleted)},
		},
		Time: event.FinishedAt,
	}, nil
}
