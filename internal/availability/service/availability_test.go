package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamian84/college-appointment-system/internal/availability/repository"
	"github.com/shamian84/college-appointment-system/internal/availability/validator"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const (
	profA = "64b7f0c2a1b2c3d4e5f60718"
	profB = "64b7f0c2a1b2c3d4e5f60719"
)

type failingRepository struct {
	repository.AvailabilityRepository
	err error
}

func (f *failingRepository) Find(context.Context, model.AvailabilityFilter) ([]*model.Availability, error) {
	return nil, f.err
}

func newTestService(repo repository.AvailabilityRepository) AvailabilityService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewAvailabilityService(repo, validator.NewAvailabilityValidator(), cfg)
}

func TestPublish(t *testing.T) {
	svc := newTestService(repository.NewMemoryAvailabilityRepository())

	got, err := svc.Publish(context.Background(), profA, &model.PublishAvailabilityRequest{
		Date:      "2025-09-20",
		TimeSlots: []string{" 10:00-11:00 ", "11:00-12:00", "10:00-11:00", ""},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, profA, got.ProfessorID)
	assert.Equal(t, []model.TimeSlot{
		{Time: "10:00-11:00", IsBooked: false},
		{Time: "11:00-12:00", IsBooked: false},
	}, got.TimeSlots)
}

func TestPublish_DuplicateDateConflicts(t *testing.T) {
	svc := newTestService(repository.NewMemoryAvailabilityRepository())
	req := func() *model.PublishAvailabilityRequest {
		return &model.PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{"10:00-11:00"}}
	}

	_, err := svc.Publish(context.Background(), profA, req())
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), profA, req())
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, "Availability already exists for this date", appErr.Message)

	_, err = svc.Publish(context.Background(), profB, req())
	assert.NoError(t, err)
}

func TestPublish_Validation(t *testing.T) {
	svc := newTestService(repository.NewMemoryAvailabilityRepository())

	tests := []struct {
		name  string
		req   model.PublishAvailabilityRequest
		field string
	}{
		{"missing date", model.PublishAvailabilityRequest{TimeSlots: []string{"10:00"}}, "date"},
		{"bad date", model.PublishAvailabilityRequest{Date: "20/09/2025", TimeSlots: []string{"10:00"}}, "date"},
		{"no slots", model.PublishAvailabilityRequest{Date: "2025-09-20"}, "timeSlots"},
		{"only blank slots", model.PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{" ", ""}}, "timeSlots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Publish(context.Background(), profA, &req)
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
			assert.Contains(t, appErr.Details["fields"], tt.field)
		})
	}
}

func TestQuery(t *testing.T) {
	svc := newTestService(repository.NewMemoryAvailabilityRepository())
	for _, date := range []string{"2025-09-22", "2025-09-20"} {
		_, err := svc.Publish(context.Background(), profA, &model.PublishAvailabilityRequest{Date: date, TimeSlots: []string{"09:00"}})
		require.NoError(t, err)
	}

	all, err := svc.Query(context.Background(), profA, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-09-20", all[0].Date)
	assert.Equal(t, "2025-09-22", all[1].Date)

	one, err := svc.Query(context.Background(), profA, "2025-09-22")
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = svc.Query(context.Background(), profB, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Query(context.Background(), "not-an-id", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Query(context.Background(), profA, "tomorrow")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestQuery_StoreTimeoutIsRetryable(t *testing.T) {
	svc := newTestService(&failingRepository{err: context.DeadlineExceeded})

	_, err := svc.Query(context.Background(), profA, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))

	svc = newTestService(&failingRepository{err: errors.New("schema validation failed")})
	_, err = svc.Query(context.Background(), profA, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestQueryAll_Pagination(t *testing.T) {
	svc := newTestService(repository.NewMemoryAvailabilityRepository())
	for _, prof := range []string{profB, profA} {
		_, err := svc.Publish(context.Background(), prof, &model.PublishAvailabilityRequest{Date: "2025-09-20", TimeSlots: []string{"09:00"}})
		require.NoError(t, err)
	}

	page, total, err := svc.QueryAll(context.Background(), "", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, profB, page[0].ProfessorID)

	_, _, err = svc.QueryAll(context.Background(), "2025-10-01", 1, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
