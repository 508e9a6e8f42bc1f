package validator

import (
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

type AppointmentValidator struct {
	v *validation.Validator
}

func NewAppointmentValidator() *AppointmentValidator {
	return &AppointmentValidator{v: validation.New()}
}

func (av *AppointmentValidator) ValidateBook(req *model.BookRequest) error {
	return av.v.Struct(req)
}

func (av *AppointmentValidator) ValidateCancel(req *model.CancelRequest) error {
	return av.v.Struct(req)
}

func (av *AppointmentValidator) ValidateID(field, id string) error {
	return av.v.Var(field, id, "required,mongodb")
}

func (av *AppointmentValidator) ValidateDate(date string) error {
	return av.v.Var("date", date, "omitempty,datetime=2006-01-02")
}

func (av *AppointmentValidator) ValidateStatus(status string) error {
	return av.v.Var("status", status, "omitempty,oneof=Booked Cancelled Completed")
}
