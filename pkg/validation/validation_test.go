package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
)

type sample struct {
	Email string   `json:"email" validate:"required,email"`
	Role  string   `json:"role" validate:"required,oneof=professor student"`
	Date  string   `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []string `json:"timeSlots" validate:"required,min=1,dive,required"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "bad", Role: "admin", Date: "2025/09/20", Slots: []string{"10:00", ""}})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be one of: professor, student", byField["role"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", byField["date"])
	assert.Equal(t, "is required", byField["timeSlots[1]"])
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, New().Struct(sample{Email: "a@b.edu", Role: "student", Date: "2025-09-20", Slots: []string{"10:00"}}))
}

func TestToAppError(t *testing.T) {
	err := New().Struct(sample{})
	appErr := ToAppError("Invalid booking request", err)

	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, 400, appErr.StatusCode())
	fields, ok := appErr.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "email")

	single := ToAppError("bad", ValidationError{Field: "time", Message: "is required"})
	assert.Equal(t, map[string]any{"time": "is required"}, single.Details["fields"])
}

func TestVar(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("date", "2025-09-20", "datetime=2006-01-02"))

	err := v.Var("date", "20-09-2025", "datetime=2006-01-02")
	var fieldErr ValidationError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "date", fieldErr.Field)
	assert.Equal(t, "must be a date in YYYY-MM-DD format", fieldErr.Message)

	assert.Error(t, v.Var("professorId", "nope", "mongodb"))
}
