package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userserrors "github.com/shamian84/college-appointment-system/internal/users/errors"
	"github.com/shamian84/college-appointment-system/internal/users/repository"
	"github.com/shamian84/college-appointment-system/internal/users/validator"
	"github.com/shamian84/college-appointment-system/pkg/auth"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// ────── mock repository ──────

// mockUserRepository falls back to the in-memory repository unless a func is set.
type mockUserRepository struct {
	*repository.MemoryUserRepository
	createFunc      func(ctx context.Context, user *model.User) error
	countByRoleFunc func(ctx context.Context, role string) (int64, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return m.MemoryUserRepository.Create(ctx, user)
}

func (m *mockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	if m.countByRoleFunc != nil {
		return m.countByRoleFunc(ctx, role)
	}
	return m.MemoryUserRepository.CountByRole(ctx, role)
}

func newMemoryRepository() *mockUserRepository {
	return &mockUserRepository{MemoryUserRepository: repository.NewMemoryUserRepository()}
}

func newTestService(repo *mockUserRepository) (*userService, *auth.TokenManager) {
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
	tokens := auth.NewTokenManager(testSecret, 15*time.Minute, 24*time.Hour)
	svc := NewUserService(repo, validator.NewUserValidator(), tokens, cfg).(*userService)
	return svc, tokens
}

func register(t *testing.T, svc *userService, name, email, role string) *model.UserSummary {
	t.Helper()
	summary, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return summary
}

// ────── register ──────

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(newMemoryRepository())

	first := register(t, svc, "Dr. Test", "test@college.edu", config.RoleProfessor)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, config.RoleProfessor, first.Role)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Someone Else",
		Email:    "  TEST@college.edu ",
		Password: "another1",
		Role:     config.RoleStudent,
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, "User already exists", apperrors.AsAppError(err).Message)
}

func TestRegister_DuplicateKeyOnInsert(t *testing.T) {
	repo := newMemoryRepository()
	repo.createFunc = func(context.Context, *model.User) error {
		return fmt.Errorf("%w: race", userserrors.ErrDuplicateEmail)
	}
	svc, _ := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Racer", Email: "race@college.edu", Password: "secret123", Role: config.RoleStudent,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(newMemoryRepository())

	tests := []struct {
		name  string
		req   model.RegisterRequest
		field string
	}{
		{"short name", model.RegisterRequest{Name: "A", Email: "a@b.edu", Password: "secret1", Role: "student"}, "name"},
		{"bad email", model.RegisterRequest{Name: "Alice", Email: "nope", Password: "secret1", Role: "student"}, "email"},
		{"short password", model.RegisterRequest{Name: "Alice", Email: "a@b.edu", Password: "123", Role: "student"}, "password"},
		{"unknown role", model.RegisterRequest{Name: "Alice", Email: "a@b.edu", Password: "secret1", Role: "admin"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Register(context.Background(), &req)
			require.Error(t, err)

			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
			fields, ok := appErr.Details["fields"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}
}

// ────── login and refresh ──────

func TestLogin_TokenCarriesSubjectAndRole(t *testing.T) {
	svc, tokens := newTestService(newMemoryRepository())
	student := register(t, svc, "Student One", "s1@college.edu", config.RoleStudent)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "S1@college.edu", Password: "secret123"})
	require.NoError(t, err)

	claims, err := tokens.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, student.ID, claims.Subject)
	assert.Equal(t, config.RoleStudent, claims.Role)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Len(t, resp.RefreshToken, 64)
	assert.Equal(t, student.ID, resp.User.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService(newMemoryRepository())
	register(t, svc, "Student One", "s1@college.edu", config.RoleStudent)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "s1@college.edu", "wrong-pass"},
		{"unknown email", "ghost@college.edu", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &model.LoginRequest{Email: tt.email, Password: tt.pass})
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
			assert.Equal(t, "Invalid credentials", appErr.Message)
		})
	}
}

func TestRefresh(t *testing.T) {
	svc, tokens := newTestService(newMemoryRepository())
	user := register(t, svc, "Student One", "s1@college.edu", config.RoleStudent)

	login, err := svc.Login(context.Background(), &model.LoginRequest{Email: "s1@college.edu", Password: "secret123"})
	require.NoError(t, err)

	t.Run("valid token issues new access token", func(t *testing.T) {
		resp, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		claims, err := tokens.ParseAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: "deadbeef"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), &model.RefreshRequest{})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("expired token is forbidden", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	t.Run("login rotates the previous token", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "s1@college.edu", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	})
}

// ────── professors ──────

func TestListProfessors_Pagination(t *testing.T) {
	svc, _ := newTestService(newMemoryRepository())
	register(t, svc, "Dr. Alpha", "alpha@college.edu", config.RoleProfessor)
	register(t, svc, "Dr. Beta", "beta@college.edu", config.RoleProfessor)
	register(t, svc, "Student One", "s1@college.edu", config.RoleStudent)

	professors, total, err := svc.ListProfessors(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, professors, 1)
	assert.Equal(t, "Dr. Beta", professors[0].Name)

	_, _, err = svc.ListProfessors(context.Background(), 3, 1)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, "No professors found", appErr.Message)
}

func TestListProfessors_StoreTimeoutIsRetryable(t *testing.T) {
	repo := newMemoryRepository()
	repo.countByRoleFunc = func(context.Context, string) (int64, error) {
		return 0, fmt.Errorf("count: %w", context.DeadlineExceeded)
	}
	svc, _ := newTestService(repo)

	_, _, err := svc.ListProfessors(context.Background(), 1, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
}

func TestGetProfessor(t *testing.T) {
	svc, _ := newTestService(newMemoryRepository())
	prof := register(t, svc, "Dr. Test", "test@college.edu", config.RoleProfessor)
	student := register(t, svc, "Student One", "s1@college.edu", config.RoleStudent)

	got, err := svc.GetProfessor(context.Background(), prof.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Test", got.Name)

	_, err = svc.GetProfessor(context.Background(), student.ID)
	require.Error(t, err)
	assert.Equal(t, "Professor not found", apperrors.AsAppError(err).Message)

	_, err = svc.GetProfessor(context.Background(), "ffffffffffffffffffffffff")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
