package service

import (
	"context"
	"errors"
	"sync"
	"time"

	userserrors "github.com/shamian84/college-appointment-system/internal/users/errors"
	"github.com/shamian84/college-appointment-system/internal/users/repository"
	"github.com/shamian84/college-appointment-system/internal/users/validator"
	"github.com/shamian84/college-appointment-system/pkg/auth"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/sanitizer"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

type TokenIssuer interface {
	IssueAccessToken(userID, role string) (string, error)
	IssueRefreshToken() (auth.RefreshToken, error)
	AccessTTL() time.Duration
}

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error)

	ListProfessors(ctx context.Context, page int, limit int) ([]model.UserSummary, int64, error)
	GetProfessor(ctx context.Context, id string) (*model.UserSummary, error)
	Summaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    TokenIssuer
	cfg       *config.Config
	now       func() time.Time
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens TokenIssuer,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error) {
	req.Name = sanitizer.SanitizeName(req.Name)
	req.Email = sanitizer.SanitizeEmail(req.Email)

	if err := s.validator.ValidateRegister(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed",
			"email", req.Email,
			"role", req.Role,
			"error", err,
		)
		return nil, validation.ToAppError("Registration validation failed", err)
	}

	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("User already exists")
	case !errors.Is(err, userserrors.ErrNotFound):
		s.cfg.Log.Error("Failed to check existing user", "email", req.Email, "error", err)
		return nil, apperrors.FromStore("Failed to register user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("User already exists")
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.FromStore("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered successfully",
		"id", user.ID,
		"email", user.Email,
		"role", user.Role,
	)

	summary := user.Summary()
	return &summary, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = sanitizer.SanitizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, validation.ToAppError("Login validation failed", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			s.cfg.Log.Warn("Login failed", "email", req.Email, "reason", "unknown email")
			return nil, apperrors.InvalidInput("Invalid credentials")
		}
		s.cfg.Log.Error("Failed to load user for login", "email", req.Email, "error", err)
		return nil, apperrors.FromStore("Failed to log in", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.cfg.Log.Warn("Login failed", "email", req.Email, "reason", "wrong password")
		return nil, apperrors.InvalidInput("Invalid credentials")
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue access token", err)
	}
	refresh, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to issue refresh token", err)
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, refresh.Hash, refresh.ExpiresAt); err != nil {
		s.cfg.Log.Error("Failed to store refresh token", "user_id", user.ID, "error", err)
		return nil, apperrors.FromStore("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh.Raw,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		User:         user.Summary(),
	}, nil
}

func (s *userService) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error) {
	if err := s.validator.ValidateRefresh(req); err != nil {
		return nil, apperrors.Unauthorized("Refresh token required")
	}

	user, err := s.repo.FindByRefreshTokenHash(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		s.cfg.Log.Error("Failed to look up refresh token", "error", err)
		return nil, apperrors.FromStore("Failed to refresh token", err)
	}

	if user.RefreshTokenExpiresAt == nil || !s.now().Before(*user.RefreshTokenExpiresAt) {
		s.cfg.Log.Warn("Expired refresh token presented", "user_id", user.ID)
		return nil, apperrors.Forbidden("Refresh token expired")
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue access token", err)
	}

	return &model.RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *userService) ListProfessors(ctx context.Context, page int, limit int) ([]model.UserSummary, int64, error) {
	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)
	offset := config.Offset(page, limit)

	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByRole(ctx, config.RoleProfessor)
		if err != nil {
			s.cfg.Log.Error("Failed to count professors", "error", err)
			errCount = apperrors.FromStore("Failed to count professors", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		users, err = s.repo.FindByRole(ctx, config.RoleProfessor, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list professors",
				"page", page,
				"limit", limit,
				"error", err,
			)
			errFind = apperrors.FromStore("Failed to retrieve professors", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if len(users) == 0 {
		return nil, count, apperrors.EmptyResult("No professors found")
	}

	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, count, nil
}

// GetProfessor returns the summary of a user holding the professor role.
func (s *userService) GetProfessor(ctx context.Context, id string) (*model.UserSummary, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Professor")
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid professor ID format")
		}
		s.cfg.Log.Error("Failed to get professor", "id", id, "error", err)
		return nil, apperrors.FromStore("Failed to retrieve professor", err)
	}
	if user.Role != config.RoleProfessor {
		return nil, apperrors.NotFound("Professor")
	}

	summary := user.Summary()
	return &summary, nil
}

func (s *userService) Summaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	out, err := s.repo.FindSummaries(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve user summaries", "count", len(ids), "error", err)
		return nil, apperrors.FromStore("Failed to resolve users", err)
	}
	return out, nil
}
