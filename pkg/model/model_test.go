package model

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestPublishAvailabilityRequest_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name        string
		req         PublishAvailabilityRequest
		expectValid bool
	}{
		{
			name:        "valid request",
			req:         PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{"10:00-11:00", "11:00-12:00"}},
			expectValid: true,
		},
		{
			name:        "missing date",
			req:         PublishAvailabilityRequest{TimeSlots: []string{"10:00-11:00"}},
			expectValid: false,
		},
		{
			name:        "date not in calendar format",
			req:         PublishAvailabilityRequest{Date: "20/09/2025", TimeSlots: []string{"10:00-11:00"}},
			expectValid: false,
		},
		{
			name:        "no slots",
			req:         PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{}},
			expectValid: false,
		},
		{
			name:        "blank slot label",
			req:         PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{"10:00-11:00", ""}},
			expectValid: false,
		},
		{
			name:        "free form label",
			req:         PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{"after lunch"}},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterRequest_Validation(t *testing.T) {
	v := validator.New()

	valid := RegisterRequest{Name: "Dr. Test", Email: "prof@campus.edu", Password: "secret1", Role: "professor"}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
	}{
		{"short name", func(r *RegisterRequest) { r.Name = "D" }},
		{"long name", func(r *RegisterRequest) { r.Name = strings.Repeat("a", 101) }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }},
		{"unknown role", func(r *RegisterRequest) { r.Role = "admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := v.Struct(r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAvailability_FindSlot(t *testing.T) {
	a := &Availability{TimeSlots: []TimeSlot{{Time: "10:00-11:00"}, {Time: "11:00-12:00", IsBooked: true}}}

	if i := a.FindSlot(func(s string) bool { return s == "11:00-12:00" }); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := a.FindSlot(func(s string) bool { return s == "12:00-13:00" }); i != -1 {
		t.Errorf("expected -1, got %d", i)
	}
}

func TestUser_SummaryOmitsSecrets(t *testing.T) {
	u := &User{ID: "u1", Name: "Ada", Email: "ada@campus.edu", Role: "student", PasswordHash: "hash", RefreshTokenHash: "rt"}
	s := u.Summary()

	if s.ID != "u1" || s.Name != "Ada" || s.Email != "ada@campus.edu" || s.Role != "student" {
		t.Errorf("unexpected summary %+v", s)
	}
}
