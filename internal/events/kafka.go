// Package events ships domain events out of the process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/kirinyoku/tablebook/internal/domain"
)

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// KafkaPublisher produces events asynchronously, keyed by restaurant so that one
// restaurant's events keep their order within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafkaPublisher(ctx context.Context, cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	const op = "events.NewKafkaPublisher"

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish enqueues ev and returns without waiting for the broker. Delivery failures are logged.
func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.Event) error {
	const op = "events.KafkaPublisher.Publish"

	rec, err := record(p.topic, ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	p.client.Produce(ctx, rec, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("event delivery failed",
				"type", ev.Type, "event_id", ev.ID, "topic", r.Topic, "error", err)
		}
	})

	return nil
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	defer p.client.Close()

	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("events.KafkaPublisher.Close:%w", err)
	}
	return nil
}

func record(topic string, ev domain.Event) (*kgo.Record, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	return &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.RestaurantID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
		Timestamp: ev.OccurredAt,
	}, nil
}
