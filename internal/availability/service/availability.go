package service

import (
	"context"
	"errors"
	"sync"

	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	"github.com/shamian84/college-appointment-system/internal/availability/repository"
	"github.com/shamian84/college-appointment-system/internal/availability/validator"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/sanitizer"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

type AvailabilityService interface {
	Publish(ctx context.Context, professorID string, req *model.PublishAvailabilityRequest) (*model.Availability, error)
	Query(ctx context.Context, professorID string, date string) ([]*model.Availability, error)
	QueryAll(ctx context.Context, date string, page int, limit int) ([]*model.Availability, int64, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *availabilityService) Publish(ctx context.Context, professorID string, req *model.PublishAvailabilityRequest) (*model.Availability, error) {
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.TimeSlots = sanitizer.NormalizeSlotLabels(req.TimeSlots)

	if err := s.validator.ValidatePublish(req); err != nil {
		s.cfg.Log.Warn("Availability validation failed",
			"professor_id", professorID,
			"date", req.Date,
			"error", err,
		)
		return nil, validation.ToAppError("Availability validation failed", err)
	}

	_, err := s.repo.FindByProfessorAndDate(ctx, professorID, req.Date)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("Availability already exists for this date")
	case !errors.Is(err, availabilityerrors.ErrNotFound):
		s.cfg.Log.Error("Failed to check existing availability",
			"professor_id", professorID,
			"date", req.Date,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to publish availability", err)
	}

	slots := make([]model.TimeSlot, 0, len(req.TimeSlots))
	for _, label := range req.TimeSlots {
		slots = append(slots, model.TimeSlot{Time: label})
	}
	availability := &model.Availability{
		ProfessorID: professorID,
		Date:        req.Date,
		TimeSlots:   slots,
	}

	if err := s.repo.Create(ctx, availability); err != nil {
		if errors.Is(err, availabilityerrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Availability already exists for this date")
		}
		s.cfg.Log.Error("Failed to create availability",
			"professor_id", professorID,
			"date", req.Date,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to publish availability", err)
	}

	s.cfg.Log.Info("Availability published",
		"id", availability.ID,
		"professor_id", professorID,
		"date", availability.Date,
		"slots", len(availability.TimeSlots),
	)

	return availability, nil
}

func (s *availabilityService) Query(ctx context.Context, professorID string, date string) ([]*model.Availability, error) {
	if err := s.validator.ValidateProfessorID(professorID); err != nil {
		return nil, apperrors.InvalidInput("Invalid professor ID format")
	}
	if err := s.validator.ValidateDate(date); err != nil {
		return nil, validation.ToAppError("Invalid date filter", err)
	}

	availabilities, err := s.repo.Find(ctx, model.AvailabilityFilter{ProfessorID: professorID, Date: date})
	if err != nil {
		s.cfg.Log.Error("Failed to query availability",
			"professor_id", professorID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to retrieve availability", err)
	}
	if len(availabilities) == 0 {
		return nil, apperrors.EmptyResult("No availability found")
	}
	return availabilities, nil
}

func (s *availabilityService) QueryAll(ctx context.Context, date string, page int, limit int) ([]*model.Availability, int64, error) {
	if err := s.validator.ValidateDate(date); err != nil {
		return nil, 0, validation.ToAppError("Invalid date filter", err)
	}

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)
	offset := config.Offset(page, limit)

	var count int64
	var availabilities []*model.Availability
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, date)
		if err != nil {
			s.cfg.Log.Error("Failed to count availabilities", "date", date, "error", err)
			errCount = apperrors.FromStore("Failed to count availability", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		availabilities, err = s.repo.FindAll(ctx, date, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list availabilities",
				"date", date,
				"page", page,
				"limit", limit,
				"error", err,
			)
			errFind = apperrors.FromStore("Failed to retrieve availability", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if len(availabilities) == 0 {
		return nil, count, apperrors.EmptyResult("No availability found")
	}
	return availabilities, count, nil
}
