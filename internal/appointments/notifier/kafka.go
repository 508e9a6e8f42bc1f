package notifier

import (
	"context"
	"fmt"

	"github.com/shamian84/college-appointment-system/pkg/kafka"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const SchemaVersion = "1"

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes events keyed by student so one student's events stay ordered.
type KafkaNotifier struct {
	publisher Publisher
	log       *logger.Logger
}

func NewKafkaNotifier(publisher Publisher, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event *model.AppointmentEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.StudentID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(event.Type).
		WithCorrelationID(logger.RequestIDFrom(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return fmt.Errorf("build notification message: %w", err)
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	n.log.WithContext(ctx).Debug("Notification published",
		"event_id", event.EventID,
		"event_type", event.Type,
		"appointment_id", event.AppointmentID,
	)
	return nil
}
