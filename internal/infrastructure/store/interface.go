package store

import "context"

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event

	// Snapshot support
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event

	// Drop discards an aggregate's stream and snapshot once its session is gone
	Drop(aggregateID string)
}

// Publisher forwards stored events to a message broker
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}
