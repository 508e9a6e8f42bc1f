package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// Validator wraps go-playground/validator and reports fields by their JSON names.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// Struct validates s and returns ValidationErrors on rule failures.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		out := make(ValidationErrors, 0, len(validationErrs))
		for _, fe := range validationErrs {
			out = append(out, ValidationError{Field: fieldPath(fe), Message: message(fe)})
		}
		return out
	}
	return err
}

// Var validates a single value against tag and reports failures under field.
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return ValidationError{Field: field, Message: message(validationErrs[0])}
	}
	return err
}

// ToAppError converts a validation failure into a 400 with per-field details.
func ToAppError(message string, err error) *apperrors.AppError {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		fields := make(map[string]any, len(errs))
		for _, e := range errs {
			fields[e.Field] = e.Message
		}
		return apperrors.Validation(message, map[string]any{"fields": fields})
	}
	var single ValidationError
	if errors.As(err, &single) {
		return apperrors.Validation(message, map[string]any{"fields": map[string]any{single.Field: single.Message}})
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "mongodb":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
