package notifier

import (
	"context"

	"github.com/shamian84/college-appointment-system/pkg/kafka"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

// NewDeliveryHandler consumes published appointment events and hands them to the
// outbound channel. Delivery itself is a log line until a mail provider is wired.
func NewDeliveryHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.AppointmentEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if event.Recipient.Email == "" {
			return kafka.NewPermanentError("event has no recipient", kafka.ErrInvalidMessage)
		}

		log.WithContext(ctx).Info("Student notified",
			"event_id", msg.GetEventID(),
			"event_type", event.Type,
			"correlation_id", msg.GetCorrelationID(),
			"appointment_id", event.AppointmentID,
			"to", event.Recipient.Email,
			"subject", event.Subject,
		)
		return nil
	}
}
