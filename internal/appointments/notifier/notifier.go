package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const Source = "college-appointments-api"

// Notifier delivers appointment events to the affected student.
type Notifier interface {
	Notify(ctx context.Context, event *model.AppointmentEvent) error
}

// NewEvent builds the event sent to student when professor changes appt.
func NewEvent(eventType string, appt *model.Appointment, student model.UserSummary, professor model.UserSummary) *model.AppointmentEvent {
	professorName := professor.Name
	if professorName == "" {
		professorName = "Your professor"
	}

	var subject, message string
	switch eventType {
	case model.EventAppointmentCompleted:
		subject = "Appointment completed"
		message = fmt.Sprintf("%s marked your appointment on %s at %s as completed.", professorName, appt.Date, appt.Time)
	default:
		subject = "Appointment cancelled"
		message = fmt.Sprintf("%s cancelled your appointment on %s at %s.", professorName, appt.Date, appt.Time)
		if appt.CancellationNote != "" {
			message += " Reason: " + appt.CancellationNote
		}
	}

	return &model.AppointmentEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		AppointmentID: appt.ID,
		StudentID:     appt.StudentID,
		ProfessorID:   appt.ProfessorID,
		Date:          appt.Date,
		Time:          appt.Time,
		Note:          appt.CancellationNote,
		Recipient: model.Recipient{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
		},
		Subject:    subject,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// LogNotifier only logs. It is the default when no broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, event *model.AppointmentEvent) error {
	n.log.WithContext(ctx).Info("Student notified",
		"event_id", event.EventID,
		"event_type", event.Type,
		"appointment_id", event.AppointmentID,
		"recipient", event.Recipient.Email,
		"subject", event.Subject,
	)
	return nil
}
