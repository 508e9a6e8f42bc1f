package model

import "time"

type Appointment struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID        string    `json:"student_id" bson:"student_id" validate:"required,mongodb"`
	ProfessorID      string    `json:"professor_id" bson:"professor_id" validate:"required,mongodb"`
	Date             string    `json:"date" bson:"date" validate:"required"`
	Time             string    `json:"time" bson:"time" validate:"required"`
	Status           string    `json:"status" bson:"status" validate:"required,oneof=Booked Cancelled Completed"`
	CancellationNote string    `json:"cancellation_note,omitempty" bson:"cancellation_note,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// AppointmentView is an appointment with both parties resolved.
type AppointmentView struct {
	Appointment
	Professor *UserSummary `json:"professor,omitempty"`
	Student   *UserSummary `json:"student,omitempty"`
}

type BookRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,max=50"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type AppointmentFilter struct {
	StudentID   string
	ProfessorID string
	Date        string
	Status      string
}

type StudentBookingsResponse struct {
	Count    int               `json:"count"`
	Bookings []AppointmentView `json:"bookings"`
}
