package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamian84/college-appointment-system/pkg/kafka"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

type capturePublisher struct {
	msgs []kafka.Message
	err  error
}

func (c *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func testAppointment() *model.Appointment {
	return &model.Appointment{
		ID:               "64b7f0c2a1b2c3d4e5f60799",
		StudentID:        "64b7f0c2a1b2c3d4e5f60711",
		ProfessorID:      "64b7f0c2a1b2c3d4e5f60701",
		Date:             "2025-09-20",
		Time:             "10:00-11:00",
		Status:           "Cancelled",
		CancellationNote: "Unavailable today",
	}
}

func TestNewEvent(t *testing.T) {
	student := model.UserSummary{ID: "64b7f0c2a1b2c3d4e5f60711", Name: "Student One", Email: "s1@college.edu"}
	professor := model.UserSummary{Name: "Dr. Test"}

	cancelled := NewEvent(model.EventAppointmentCancelled, testAppointment(), student, professor)
	assert.NotEmpty(t, cancelled.EventID)
	assert.Equal(t, "Appointment cancelled", cancelled.Subject)
	assert.Equal(t, "Dr. Test cancelled your appointment on 2025-09-20 at 10:00-11:00. Reason: Unavailable today", cancelled.Message)
	assert.Equal(t, "s1@college.edu", cancelled.Recipient.Email)
	assert.Equal(t, "Unavailable today", cancelled.Note)

	appt := testAppointment()
	appt.CancellationNote = ""
	completed := NewEvent(model.EventAppointmentCompleted, appt, student, model.UserSummary{})
	assert.Equal(t, "Appointment completed", completed.Subject)
	assert.Contains(t, completed.Message, "Your professor marked")
}

func TestKafkaNotifier_Notify(t *testing.T) {
	pub := &capturePublisher{}
	n := NewKafkaNotifier(pub, logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard, Service: "test"}))

	event := NewEvent(model.EventAppointmentCancelled, testAppointment(), model.UserSummary{ID: "64b7f0c2a1b2c3d4e5f60711"}, model.UserSummary{})
	ctx := logger.ContextWithRequestID(context.Background(), "req-123")

	require.NoError(t, n.Notify(ctx, event))
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, event.StudentID, msg.Key)
	assert.Equal(t, event.EventID, msg.GetEventID())
	assert.Equal(t, model.EventAppointmentCancelled, msg.GetEventType())
	assert.Equal(t, "req-123", msg.GetCorrelationID())
	source, _ := msg.GetHeader(kafka.HeaderSource)
	assert.Equal(t, Source, source)

	var decoded model.AppointmentEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, event.AppointmentID, decoded.AppointmentID)
	assert.Equal(t, event.Message, decoded.Message)
}

func TestKafkaNotifier_PublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	n := NewKafkaNotifier(pub, logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard, Service: "test"}))

	err := n.Notify(context.Background(), NewEvent(model.EventAppointmentCompleted, testAppointment(), model.UserSummary{}, model.UserSummary{}))
	assert.ErrorIs(t, err, pub.err)
}

func TestLogNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Config{Level: "info", Format: logger.JSON, Output: &buf, Service: "test"}))

	event := NewEvent(model.EventAppointmentCancelled, testAppointment(), model.UserSummary{Email: "s1@college.edu"}, model.UserSummary{})
	require.NoError(t, n.Notify(context.Background(), event))

	assert.Contains(t, buf.String(), "Student notified")
	assert.Contains(t, buf.String(), "s1@college.edu")
	assert.Contains(t, buf.String(), event.EventID)
}
