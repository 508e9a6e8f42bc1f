package validator

import (
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

type UserValidator struct {
	v *validation.Validator
}

func NewUserValidator() *UserValidator {
	return &UserValidator{v: validation.New()}
}

func (uv *UserValidator) ValidateRegister(req *model.RegisterRequest) error {
	return uv.v.Struct(req)
}

func (uv *UserValidator) ValidateLogin(req *model.LoginRequest) error {
	return uv.v.Struct(req)
}

func (uv *UserValidator) ValidateRefresh(req *model.RefreshRequest) error {
	return uv.v.Struct(req)
}
