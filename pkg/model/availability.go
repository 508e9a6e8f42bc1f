package model

import "time"

type TimeSlot struct {
	Time     string `json:"time" bson:"time"`
	IsBooked bool   `json:"is_booked" bson:"is_booked"`
}

type Availability struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProfessorID string     `json:"professor_id" bson:"professor_id" validate:"required,mongodb"`
	Date        string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	TimeSlots   []TimeSlot `json:"time_slots" bson:"time_slots" validate:"required,min=1"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// FindSlot returns the index of the first slot accepted by match, or -1.
func (a *Availability) FindSlot(match func(stored string) bool) int {
	for i, s := range a.TimeSlots {
		if match(s.Time) {
			return i
		}
	}
	return -1
}

type PublishAvailabilityRequest struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlots []string `json:"timeSlots" validate:"required,min=1,max=96,dive,required,max=50"`
}

type AvailabilityFilter struct {
	ProfessorID string
	Date        string
}
