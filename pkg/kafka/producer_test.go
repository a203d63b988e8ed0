package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichitomultihogar/elcausa/pkg/logger"
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

type cartPayload struct {
	Items int   `json:"items"`
	Total int64 `json:"total"`
}

func TestNewEvent_Fields(t *testing.T) {
	before := time.Now().UTC()
	event, err := NewEvent("cart.updated", "session-1", "cart", "elcausa", cartPayload{Items: 3, Total: 13000})
	require.NoError(t, err)

	assert.Len(t, event.EventID, 36)
	assert.Equal(t, "cart.updated", event.EventType)
	assert.Equal(t, "session-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.Before(before))
	assert.JSONEq(t, `{"items":3,"total":13000}`, string(event.Data))
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("cart.updated", "s", "cart", "elcausa", make(chan int))
	assert.Error(t, err)
}

func TestEvent_RoundTripWithMetadata(t *testing.T) {
	event, err := NewEvent("order.dispatched", "session-2", "order", "elcausa", cartPayload{Items: 1, Total: 8800})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1").WithMetadata("payment_method", "cash")

	data, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "corr-1", got.CorrelationID)
	assert.Equal(t, "cash", got.Metadata["payment_method"])

	var payload cartPayload
	require.NoError(t, got.UnmarshalData(&payload))
	assert.Equal(t, int64(8800), payload.Total)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "elcausa.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "elcausa.order.dispatched", Topic("order", "dispatched"))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, []string{"localhost:9092"}, logger.Discard())

	event, err := NewEvent("cart.cleared", "session-3", "cart", "elcausa", cartPayload{})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	require.NoError(t, p.Publish(context.Background(), Topic("cart", "cleared"), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "elcausa.cart.cleared", msg.Topic)
	assert.Equal(t, []byte("session-3"), msg.Key)
	assert.Len(t, msg.Headers, 3)
	assert.Equal(t, "correlation_id", msg.Headers[2].Key)
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, nil, logger.Discard())

	event, err := NewEvent("cart.cleared", "session-3", "cart", "elcausa", cartPayload{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "elcausa.cart.cleared", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestProducer_PingWithoutBrokers(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, nil, logger.Discard())
	assert.Error(t, p.Ping(context.Background()))
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, NewProducerWithWriter(w, nil, logger.Discard()).Close())
	assert.True(t, w.closed)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:9092"}), logger.Discard())
	require.NotNil(t, p)
	assert.NoError(t, p.Close())
}
