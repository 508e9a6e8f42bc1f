package service

import (
	"context"
	"errors"

	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	"github.com/shamian84/college-appointment-system/pkg/sanitizer"
)

// ReopenResult is the outcome of freeing a cancelled appointment's slot.
type ReopenResult int

const (
	ReopenFailed ReopenResult = iota
	Reopened
	ReopenAlreadyFree
	ReopenNoSlot
	ReopenNoAvailability
)

func (r ReopenResult) String() string {
	switch r {
	case Reopened:
		return "reopened"
	case ReopenAlreadyFree:
		return "already_free"
	case ReopenNoSlot:
		return "no_slot"
	case ReopenNoAvailability:
		return "no_availability"
	default:
		return "failed"
	}
}

// reopenSlot frees the slot matching label. It is idempotent and never returns
// an error; callers log the result.
func (s *appointmentService) reopenSlot(ctx context.Context, professorID, date, label string) ReopenResult {
	availability, err := s.availability.FindByProfessorAndDate(ctx, professorID, date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return ReopenNoAvailability
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to load availability for reopen",
			"professor_id", professorID,
			"date", date,
			"error", err,
		)
		return ReopenFailed
	}

	idx := availability.FindSlot(func(stored string) bool {
		return sanitizer.LabelsMatch(stored, label)
	})
	if idx < 0 {
		return ReopenNoSlot
	}

	slot := availability.TimeSlots[idx]
	if !slot.IsBooked {
		return ReopenAlreadyFree
	}

	if err := s.availability.ReleaseSlot(ctx, availability.ID, slot.Time); err != nil {
		if errors.Is(err, availabilityerrors.ErrSlotNotBooked) {
			return ReopenAlreadyFree
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to release slot",
			"availability_id", availability.ID,
			"time", slot.Time,
			"error", err,
		)
		return ReopenFailed
	}
	return Reopened
}
