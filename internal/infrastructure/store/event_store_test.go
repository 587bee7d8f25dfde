package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

// ============================================
// Append Tests
// ============================================

func TestEventStore_Append_AssignsVersions(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	first, err := es.Append(ctx, "cart-1", "Cart", "ItemAddedToCart", map[string]int{"quantity": 1})
	require.NoError(t, err)
	second, err := es.Append(ctx, "cart-1", "Cart", "ItemAddedToCart", map[string]int{"quantity": 2})
	require.NoError(t, err)
	other, err := es.Append(ctx, "cart-2", "Cart", "CartCleared", struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, 1, other.Version)
	assert.NotEqual(t, first.ID, second.ID)

	var data map[string]int
	require.NoError(t, json.Unmarshal(second.Data, &data))
	assert.Equal(t, 2, data["quantity"])
}

func TestEventStore_Append_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	es := NewEventStore(pub)

	_, err := es.Append(context.Background(), "cart-1", "Cart", "CartCleared", struct{}{})

	require.NoError(t, err)
	assert.Equal(t, []string{"cart-1"}, pub.keys)
}

func TestEventStore_Append_PublishFailureKeepsEvent(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	es := NewEventStore(pub)

	event, err := es.Append(context.Background(), "cart-1", "Cart", "CartCleared", struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 1, event.Version)
	assert.Len(t, es.GetEvents("cart-1"), 1)
}

func TestEventStore_Append_UnmarshalableData(t *testing.T) {
	es := NewEventStore(nil)

	_, err := es.Append(context.Background(), "cart-1", "Cart", "Bad", make(chan int))

	assert.Error(t, err)
	assert.Empty(t, es.GetEvents("cart-1"))
}

// ============================================
// Query Tests
// ============================================

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := es.Append(ctx, "cart-1", "Cart", "ItemAddedToCart", i)
		require.NoError(t, err)
	}

	events := es.GetEventsFromVersion(ctx, "cart-1", 3)

	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

// ============================================
// Snapshot and Drop Tests
// ============================================

func TestEventStore_Snapshots(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	snap, err := es.GetSnapshot(ctx, "cart-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	err = es.SaveSnapshot(ctx, &Snapshot{
		AggregateID:   "cart-1",
		AggregateType: "Cart",
		Version:       10,
		State:         json.RawMessage(`{"id":"cart-1"}`),
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)

	snap, err = es.GetSnapshot(ctx, "cart-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 10, snap.Version)
}

func TestEventStore_SaveSnapshot_RequiresID(t *testing.T) {
	es := NewEventStore(nil)

	assert.ErrorIs(t, es.SaveSnapshot(context.Background(), &Snapshot{}), ErrInvalidSnapshot)
	assert.ErrorIs(t, es.SaveSnapshot(context.Background(), nil), ErrInvalidSnapshot)
}

func TestEventStore_Drop(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()
	es.Append(ctx, "cart-1", "Cart", "X", 1)
	es.SaveSnapshot(ctx, &Snapshot{AggregateID: "cart-1", Version: 1})

	es.Drop("cart-1")

	assert.Empty(t, es.GetEvents("cart-1"))
	snap, _ := es.GetSnapshot(ctx, "cart-1")
	assert.Nil(t, snap)
}

func TestEventStore_ConcurrentAppend(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			es.Append(ctx, "cart-1", "Cart", "ItemAddedToCart", i)
		}(i)
	}
	wg.Wait()

	events := es.GetEvents("cart-1")
	require.Len(t, events, 50)
	seen := make(map[int]bool)
	for _, e := range events {
		seen[e.Version] = true
	}
	assert.Len(t, seen, 50)
}
