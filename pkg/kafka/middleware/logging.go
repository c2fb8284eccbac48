package kafka_middleware

import (
	"context"
	"time"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
)

// LoggingProducerMiddleware logs message publishing operations
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		l := log.FromContext(ctx)

		l.Debug("Publishing message",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
		)

		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			l.Error("Failed to publish message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"duration", duration,
				"transient", kafka.ClassifyError(err) == kafka.ErrorTypeTransient,
				"error", err,
			)
		} else {
			l.Info("Successfully published message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"duration", duration,
			)
		}

		return err
	}
}
