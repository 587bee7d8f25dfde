package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// SnapshotThreshold is how many versions pass between two snapshots of an aggregate
const SnapshotThreshold = 10

var ErrInvalidSnapshot = errors.New("snapshot requires an aggregate id")

// Snapshot is an aggregate's serialized state as of Version
type Snapshot struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	State         json.RawMessage `json:"state"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EventStore keeps session event streams in memory and optionally publishes them
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> events
	snapshots map[string]*Snapshot
	publisher Publisher
}

// NewEventStore creates an event store. publisher may be nil.
func NewEventStore(publisher Publisher) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		publisher: publisher,
	}
}

// Append stores an event and publishes it when a publisher is configured
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", eventType, err)
	}

	es.mu.Lock()
	version := len(es.events[aggregateID]) + 1
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}
	es.events[aggregateID] = append(es.events[aggregateID], event)
	es.mu.Unlock()

	if es.publisher != nil {
		// Publishing is best-effort; the in-memory stream stays authoritative
		if err := es.publisher.Publish(ctx, aggregateID, event); err != nil {
			log.Printf("[EventStore] Failed to publish %s for %s: %v", eventType, aggregateID, err)
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate
func (es *EventStore) GetEvents(aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return append([]Event(nil), es.events[aggregateID]...)
}

// GetEventsFromVersion returns events with a version greater than fromVersion
func (es *EventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var events []Event
	for _, e := range es.events[aggregateID] {
		if e.Version > fromVersion {
			events = append(events, e)
		}
	}
	return events
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil
func (es *EventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()

	snapshot, ok := es.snapshots[aggregateID]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	return &copied, nil
}

// SaveSnapshot replaces the aggregate's snapshot
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil || snapshot.AggregateID == "" {
		return ErrInvalidSnapshot
	}

	es.mu.Lock()
	defer es.mu.Unlock()
	copied := *snapshot
	es.snapshots[snapshot.AggregateID] = &copied
	return nil
}

// Drop removes an aggregate's events and snapshot
func (es *EventStore) Drop(aggregateID string) {
	es.mu.Lock()
	defer es.mu.Unlock()
	delete(es.events, aggregateID)
	delete(es.snapshots, aggregateID)
}
