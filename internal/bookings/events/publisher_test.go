package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	messages []kafka.Message
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewKafkaPublisher(producer)
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")

	event := &model.BookingEvent{
		Type:          model.EventBookingCheckedIn,
		BookingID:     "65f1c0d2a1b2c3d4e5f60740",
		HotelID:       "65f1c0d2a1b2c3d4e5f60718",
		UserID:        "65f1c0d2a1b2c3d4e5f60730",
		Status:        model.StatusCheckedIn,
		Price:         200,
		PointsAwarded: 2,
		OccurredAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, event))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, event.HotelID, msg.Key)
	assert.Equal(t, model.EventBookingCheckedIn, msg.GetEventType())
	assert.Equal(t, "req-42", msg.GetCorrelationID())
	assert.Equal(t, event.OccurredAt, msg.Timestamp)

	var decoded model.BookingEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, *event, decoded)
}

func TestKafkaPublisher_WrapsProducerErrors(t *testing.T) {
	boom := errors.New("broker down")
	publisher := NewKafkaPublisher(&fakeProducer{err: boom})

	err := publisher.Publish(context.Background(), &model.BookingEvent{Type: model.EventBookingCreated, HotelID: "h"})
	assert.ErrorIs(t, err, boom)

	err = publisher.Publish(context.Background(), &model.BookingEvent{Type: model.EventBookingCreated})
	assert.ErrorIs(t, err, kafka.ErrEmptyKey)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), &model.BookingEvent{}))
	assert.NoError(t, p.Close())
}
