package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

// MemoryAvailabilityRepository keeps availabilities in process. Slot updates
// hold the lock for the whole check and write, like the conditional updates
// of the Mongo repository. Unique (professor, date) is enforced on Create.
type MemoryAvailabilityRepository struct {
	mu    sync.Mutex
	byID  map[string]*model.Availability
	order []string
}

var _ AvailabilityRepository = (*MemoryAvailabilityRepository)(nil)

func NewMemoryAvailabilityRepository() *MemoryAvailabilityRepository {
	return &MemoryAvailabilityRepository{byID: make(map[string]*model.Availability)}
}

func (r *MemoryAvailabilityRepository) Create(_ context.Context, availability *model.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.ProfessorID == availability.ProfessorID && a.Date == availability.Date {
			return fmt.Errorf("%w: %s on %s", availabilityerrors.ErrDuplicate, availability.ProfessorID, availability.Date)
		}
	}

	now := time.Now().UTC()
	availability.ID = primitive.NewObjectID().Hex()
	availability.CreatedAt = now
	availability.UpdatedAt = now

	r.byID[availability.ID] = clone(availability)
	r.order = append(r.order, availability.ID)
	return nil
}

func (r *MemoryAvailabilityRepository) Find(_ context.Context, filter model.AvailabilityFilter) ([]*model.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(filter), nil
}

func (r *MemoryAvailabilityRepository) FindAll(_ context.Context, date string, limit int, offset int64) ([]*model.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.sorted(model.AvailabilityFilter{Date: date})
	if offset >= int64(len(all)) {
		return nil, nil
	}
	end := offset + int64(limit)
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *MemoryAvailabilityRepository) Count(_ context.Context, date string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sorted(model.AvailabilityFilter{Date: date}))), nil
}

func (r *MemoryAvailabilityRepository) FindByProfessorAndDate(_ context.Context, professorID string, date string) (*model.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.ProfessorID == professorID && a.Date == date {
			return clone(a), nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", availabilityerrors.ErrNotFound, professorID, date)
}

func (r *MemoryAvailabilityRepository) ClaimSlot(_ context.Context, id string, label string) error {
	return r.setSlot(id, label, false, true, availabilityerrors.ErrSlotUnavailable)
}

func (r *MemoryAvailabilityRepository) ReleaseSlot(_ context.Context, id string, label string) error {
	return r.setSlot(id, label, true, false, availabilityerrors.ErrSlotNotBooked)
}

func (r *MemoryAvailabilityRepository) setSlot(id string, label string, from bool, to bool, noMatch error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", noMatch, label)
	}
	for i := range a.TimeSlots {
		if a.TimeSlots[i].Time == label && a.TimeSlots[i].IsBooked == from {
			a.TimeSlots[i].IsBooked = to
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", noMatch, label)
}

func (r *MemoryAvailabilityRepository) sorted(filter model.AvailabilityFilter) []*model.Availability {
	var out []*model.Availability
	for _, id := range r.order {
		a := r.byID[id]
		if filter.ProfessorID != "" && a.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		out = append(out, clone(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ProfessorID < out[j].ProfessorID
	})
	return out
}

func clone(a *model.Availability) *model.Availability {
	cp := *a
	cp.TimeSlots = append([]model.TimeSlot(nil), a.TimeSlots...)
	return &cp
}
