package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/delicias-storefront/internal/domain/order"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

// ============================================
// Producer
// ============================================

func TestProducer_PublishOrderPlaced(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "orders")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	o := order.New("ORD-1-ABC", order.Customer{Email: "ana@x.co"}, nil, fixed)
	require.NoError(t, p.Publish(context.Background(), o.OrderNumber, order.NewPlacedEvent(o)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "ORD-1-ABC", string(msg.Key))
	assert.Equal(t, fixed, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, HeaderEventType, msg.Headers[0].Key)
	assert.Equal(t, order.EventOrderPlaced, string(msg.Headers[0].Value))

	var decoded order.PlacedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ORD-1-ABC", decoded.Order.OrderNumber)
}

func TestProducer_UnnamedEventHasNoHeaders(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "orders")

	require.NoError(t, p.Publish(context.Background(), "k", map[string]int{"n": 1}))

	require.Len(t, w.msgs, 1)
	assert.Empty(t, w.msgs[0].Headers)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[0].Value))
}

func TestProducer_RejectsEmptyKey(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "orders")

	err := p.Publish(context.Background(), "", map[string]int{})

	assert.Error(t, err)
	assert.Empty(t, w.msgs)
}

func TestProducer_EncodeError(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "orders")

	err := p.Publish(context.Background(), "k", make(chan int))

	assert.ErrorContains(t, err, "encode event for orders")
	assert.Empty(t, w.msgs)
}

func TestProducer_WriteErrorWrapped(t *testing.T) {
	broker := errors.New("leader not available")
	w := &recordingWriter{err: broker}
	p := NewProducerWithWriter(w, "orders")

	err := p.Publish(context.Background(), "ORD-9", map[string]int{})

	assert.ErrorIs(t, err, broker)
	assert.ErrorContains(t, err, "ORD-9")
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, NewProducerWithWriter(w, "orders").Close())
	assert.True(t, w.closed)
}
