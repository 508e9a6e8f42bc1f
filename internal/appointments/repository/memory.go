package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	appointmentserrors "github.com/shamian84/college-appointment-system/internal/appointments/errors"
	"github.com/shamian84/college-appointment-system/pkg/config"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

// MemoryAppointmentRepository keeps appointments in process and enforces the
// same unique booked tuple and conditional transitions as the Mongo collection.
type MemoryAppointmentRepository struct {
	mu   sync.Mutex
	byID map[string]*model.Appointment
}

var _ AppointmentRepository = (*MemoryAppointmentRepository)(nil)

func NewMemoryAppointmentRepository() *MemoryAppointmentRepository {
	return &MemoryAppointmentRepository{byID: make(map[string]*model.Appointment)}
}

func (r *MemoryAppointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appointment.Status == config.StatusBooked {
		for _, a := range r.byID {
			if a.Status == config.StatusBooked && sameTuple(a, appointment) {
				return fmt.Errorf("%w: %s %s", appointmentserrors.ErrDuplicateBooking, appointment.Date, appointment.Time)
			}
		}
	}

	now := time.Now().UTC()
	appointment.ID = primitive.NewObjectID().Hex()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	cp := *appointment
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MemoryAppointmentRepository) FindByID(_ context.Context, id string) (*model.Appointment, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryAppointmentRepository) FindBooked(_ context.Context, studentID, professorID, date, slot string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := &model.Appointment{StudentID: studentID, ProfessorID: professorID, Date: date, Time: slot}
	for _, a := range r.byID {
		if a.Status == config.StatusBooked && sameTuple(a, want) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, appointmentserrors.ErrNotFound
}

func (r *MemoryAppointmentRepository) TransitionFromBooked(_ context.Context, id string, status string, note string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.Status != config.StatusBooked {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrNotBooked, id)
	}
	a.Status = status
	if note != "" {
		a.CancellationNote = note
	}
	a.UpdatedAt = time.Now().UTC()

	cp := *a
	return &cp, nil
}

func (r *MemoryAppointmentRepository) Find(_ context.Context, filter model.AppointmentFilter, limit int, offset int64) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.matching(filter)
	if limit <= 0 {
		return all, nil
	}
	if offset >= int64(len(all)) {
		return nil, nil
	}
	end := offset + int64(limit)
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *MemoryAppointmentRepository) Count(_ context.Context, filter model.AppointmentFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *MemoryAppointmentRepository) matching(f model.AppointmentFilter) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range r.byID {
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.ProfessorID != "" && a.ProfessorID != f.ProfessorID {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sameTuple(a, b *model.Appointment) bool {
	return a.StudentID == b.StudentID &&
		a.ProfessorID == b.ProfessorID &&
		a.Date == b.Date &&
		a.Time == b.Time
}
