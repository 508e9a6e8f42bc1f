package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

func seed(t *testing.T, repo *MemoryAvailabilityRepository) *model.Availability {
	t.Helper()
	a := &model.Availability{
		ProfessorID: "64b7f0c2a1b2c3d4e5f60718",
		Date:        "2025-09-20",
		TimeSlots:   []model.TimeSlot{{Time: "10:00-11:00"}, {Time: "11:00-12:00"}},
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestMemory_CreateRejectsDuplicateDate(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	a := seed(t, repo)

	err := repo.Create(context.Background(), &model.Availability{ProfessorID: a.ProfessorID, Date: a.Date})
	assert.ErrorIs(t, err, availabilityerrors.ErrDuplicate)
}

func TestMemory_ClaimIsExclusive(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	a := seed(t, repo)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.ClaimSlot(context.Background(), a.ID, "10:00-11:00"); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, availabilityerrors.ErrSlotUnavailable)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	require.NoError(t, repo.ReleaseSlot(context.Background(), a.ID, "10:00-11:00"))
	assert.ErrorIs(t, repo.ReleaseSlot(context.Background(), a.ID, "10:00-11:00"), availabilityerrors.ErrSlotNotBooked)
}

func TestMemory_ReadsReturnCopies(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	a := seed(t, repo)

	got, err := repo.FindByProfessorAndDate(context.Background(), a.ProfessorID, a.Date)
	require.NoError(t, err)
	got.TimeSlots[0].IsBooked = true

	again, err := repo.FindByProfessorAndDate(context.Background(), a.ProfessorID, a.Date)
	require.NoError(t, err)
	assert.False(t, again.TimeSlots[0].IsBooked)
}
