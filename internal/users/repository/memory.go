package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userserrors "github.com/shamian84/college-appointment-system/internal/users/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

// MemoryUserRepository keeps users in process with a unique email constraint.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

var _ UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: %s", userserrors.ErrDuplicateEmail, user.Email)
		}
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}
	return r.findOne(func(u *model.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByRefreshTokenHash(_ context.Context, hash string) (*model.User, error) {
	if hash == "" {
		return nil, userserrors.ErrNotFound
	}
	return r.findOne(func(u *model.User) bool { return u.RefreshTokenHash == hash })
}

func (r *MemoryUserRepository) findOne(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (r *MemoryUserRepository) SetRefreshToken(_ context.Context, id string, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
	}
	u.RefreshTokenHash = hash
	u.RefreshTokenExpiresAt = &expiresAt
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) FindSummaries(_ context.Context, ids []string) (map[string]model.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]model.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *MemoryUserRepository) FindByRole(_ context.Context, role string, limit int, offset int64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.byRole(role)
	if offset >= int64(len(all)) {
		return nil, nil
	}
	end := offset + int64(limit)
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *MemoryUserRepository) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byRole(role))), nil
}

func (r *MemoryUserRepository) byRole(role string) []*model.User {
	var out []*model.User
	for _, u := range r.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
