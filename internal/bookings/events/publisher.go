// Package events announces booking lifecycle changes on Kafka.
package events

import (
	"context"
	"fmt"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

const (
	source        = "bookings"
	schemaVersion = "1"
)

// Publisher delivers booking events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *model.BookingEvent) error
	Close() error
}

// MessagePublisher is the part of *kafka.Producer used here.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer MessagePublisher
}

// NewKafkaPublisher keys every event by hotel id, so events of one hotel
// stay ordered within a partition.
func NewKafkaPublisher(producer MessagePublisher) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *model.BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.HotelID).
		WithEventType(event.Type).
		WithCorrelationID(logger.RequestIDFromContext(ctx)).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithTimestamp(event.OccurredAt).
		WithValue(event).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, *model.BookingEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
