package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/ecofinds/internal/infrastructure/store"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves queued messages and then blocks until ctx is done
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func testEvent(eventType string) store.Event {
	return store.Event{
		ID:            "evt-1",
		AggregateID:   "cart-sess-1",
		AggregateType: "Cart",
		EventType:     eventType,
		Data:          json.RawMessage(`{"cart_id":"cart-sess-1"}`),
		Timestamp:     time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC),
		Version:       3,
	}
}

func encode(t *testing.T, offset int64, e store.Event, withHeader bool) kafka.Message {
	t.Helper()
	data, err := json.Marshal(e)
	require.NoError(t, err)
	msg := kafka.Message{Offset: offset, Key: []byte(e.AggregateID), Value: data}
	if withHeader {
		msg.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte(e.EventType)}}
	}
	return msg
}

func TestProducer_Publish_StoreEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}
	e := testEvent("CheckoutCompleted")

	err := p.Publish(context.Background(), e.AggregateID, e)

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "cart-sess-1", string(msg.Key))
	assert.Equal(t, e.Timestamp, msg.Time)
	assert.Contains(t, msg.Headers, kafka.Header{Key: HeaderEventType, Value: []byte("CheckoutCompleted")})
	assert.Contains(t, msg.Headers, kafka.Header{Key: HeaderAggregateType, Value: []byte("Cart")})

	var decoded store.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, 3, decoded.Version)
}

func TestProducer_Publish_PlainValue(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), "k", map[string]string{"a": "b"})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Empty(t, w.msgs[0].Headers)
	assert.JSONEq(t, `{"a":"b"}`, string(w.msgs[0].Value))
}

func TestProducer_Publish_WriteError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), "k", testEvent("x"))

	assert.ErrorContains(t, err, "broker down")
}

func TestProducer_Publish_Unencodable(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}}

	err := p.Publish(context.Background(), "k", make(chan int))

	assert.Error(t, err)
}

func TestConsumer_FiltersAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		encode(t, 1, testEvent("ItemAddedToCart"), true),
		encode(t, 2, testEvent("CheckoutCompleted"), true),
		{Offset: 3, Value: []byte("not json")},
		encode(t, 4, testEvent("CheckoutCompleted"), false),
		encode(t, 5, testEvent("CartCleared"), false),
	}}
	c := newConsumer(reader, []string{"CheckoutCompleted"})

	ctx, cancel := context.WithCancel(context.Background())
	var seen []int
	handler := func(ctx context.Context, e store.Event) error {
		seen = append(seen, e.Version)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	}

	err := c.Consume(ctx, handler)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, seen, 2)
	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3}, reader.committed[:3])
}

func TestConsumer_HandlerErrorStillCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{encode(t, 7, testEvent("CheckoutCompleted"), true)}}
	c := newConsumer(reader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := c.Consume(ctx, func(ctx context.Context, e store.Event) error {
		defer cancel()
		return errors.New("smtp down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Equal(t, []int64{7}, reader.committed)
}
