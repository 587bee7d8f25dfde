package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/ecofinds/internal/infrastructure/store"
	"github.com/segmentio/kafka-go"
)

// EventHandler receives each decoded event envelope
type EventHandler func(ctx context.Context, event store.Event) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader messageReader
	// eventTypes limits which events reach the handler; empty means all
	eventTypes map[string]bool
}

func NewConsumer(brokers []string, topic, groupID string, eventTypes ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(reader, eventTypes)
}

func newConsumer(reader messageReader, eventTypes []string) *Consumer {
	filter := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		filter[t] = true
	}
	return &Consumer{reader: reader, eventTypes: filter}
}

// Consume runs until ctx is cancelled. Every fetched message is committed, including ones the
// handler failed on; those failures are only logged.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Kafka] Error reading message: %v", err)
			continue
		}

		if c.wants(msg) {
			var event store.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("[Kafka] Skipping undecodable message at offset %d: %v", msg.Offset, err)
			} else if c.accepts(event.EventType) {
				if err := handler(ctx, event); err != nil {
					log.Printf("[Kafka] Error handling %s for %s: %v", event.EventType, event.AggregateID, err)
				}
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Kafka] Failed to commit offset %d: %v", msg.Offset, err)
		}
	}
}

// wants checks the event_type header so filtered events are never decoded
func (c *Consumer) wants(msg kafka.Message) bool {
	for _, h := range msg.Headers {
		if h.Key == HeaderEventType {
			return c.accepts(string(h.Value))
		}
	}
	return true
}

func (c *Consumer) accepts(eventType string) bool {
	return len(c.eventTypes) == 0 || c.eventTypes[eventType]
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
