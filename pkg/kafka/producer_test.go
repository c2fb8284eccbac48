package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("65f1c0d2a1b2c3d4e5f60718").
		WithEventType("booking.created").
		WithValue(map[string]any{"price": 200}).
		Build()
	require.NoError(t, err)
	return msg
}

func TestMessageBuilder(t *testing.T) {
	msg := buildMessage(t)

	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	var payload map[string]any
	require.NoError(t, msg.DecodeValue(&payload))
	assert.Equal(t, 200.0, payload["price"])

	_, err := NewMessage().WithValue(map[string]any{"a": 1}).Build()
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewMessage().WithKey("k").WithValue(func() {}).Build()
	var kafkaErr *KafkaError
	require.ErrorAs(t, err, &kafkaErr)
	assert.Equal(t, ErrorTypePermanent, kafkaErr.Type)
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	writer := &recordingWriter{}
	p := &Producer{writer: writer, topic: "booking-events"}

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "first")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "second")
		assert.Equal(t, "booking-events", msg.Topic)
		return next(ctx, msg)
	})

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"first", "second"}, order)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "booking.created", headerValue(writer.messages[0], HeaderEventType))
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writer := &recordingWriter{err: errors.New("dial tcp: connection refused")}
	dlq := &recordingWriter{}
	p := &Producer{writer: writer, dlqWriter: dlq, topic: "booking-events", dlqTopic: "booking-events-dlq"}

	err := p.Publish(context.Background(), buildMessage(t))
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTransient, ClassifyError(err))

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "booking-events", headerValue(dlq.messages[0], HeaderOriginalTopic))
	assert.Contains(t, headerValue(dlq.messages[0], HeaderDLQError), "connection refused")
}

func TestProducer_RejectsInvalidAndClosed(t *testing.T) {
	writer := &recordingWriter{}
	p := &Producer{writer: writer, topic: "booking-events"}

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}
