package validator

import (
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

type AvailabilityValidator struct {
	v *validation.Validator
}

func NewAvailabilityValidator() *AvailabilityValidator {
	return &AvailabilityValidator{v: validation.New()}
}

func (av *AvailabilityValidator) ValidatePublish(req *model.PublishAvailabilityRequest) error {
	return av.v.Struct(req)
}

func (av *AvailabilityValidator) ValidateProfessorID(id string) error {
	return av.v.Var("professorId", id, "required,mongodb")
}

// ValidateDate accepts an empty date, which means no date filter.
func (av *AvailabilityValidator) ValidateDate(date string) error {
	return av.v.Var("date", date, "omitempty,datetime=2006-01-02")
}
