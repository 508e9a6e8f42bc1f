package model

import "time"

type User struct {
	ID                    string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                  string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email                 string     `json:"email" bson:"email" validate:"required,email"`
	Role                  string     `json:"role" bson:"role" validate:"required,oneof=professor student"`
	PasswordHash          string     `json:"-" bson:"password_hash"`
	RefreshTokenHash      string     `json:"-" bson:"refresh_token_hash,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"-" bson:"refresh_token_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the public projection embedded in responses.
type UserSummary struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Role  string `json:"role" bson:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=professor student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         UserSummary `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
