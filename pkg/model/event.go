package model

import "time"

const (
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
)

type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AppointmentEvent is published when a professor changes a student's appointment.
type AppointmentEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointment_id"`
	StudentID     string    `json:"student_id"`
	ProfessorID   string    `json:"professor_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Note          string    `json:"note,omitempty"`
	Recipient     Recipient `json:"recipient"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	OccurredAt    time.Time `json:"occurred_at"`
}
