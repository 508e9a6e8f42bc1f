package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/shamian84/college-appointment-system/pkg/auth"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	httputil "github.com/shamian84/college-appointment-system/pkg/http"
	"github.com/shamian84/college-appointment-system/pkg/logger"
)

type TokenParser interface {
	ParseAccessToken(raw string) (*auth.Claims, error)
}

type Authenticator struct {
	tokens TokenParser
	log    *logger.Logger
}

func NewAuthenticator(tokens TokenParser, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

// Authenticate attaches the bearer token's principal to the request context.
func (a *Authenticator) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw, ok := bearerToken(r)
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
			return
		}

		claims, err := a.tokens.ParseAccessToken(raw)
		if err != nil {
			msg := "Not authorized, token failed"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Not authorized, token expired"
			}
			a.log.WithContext(r.Context()).Warn("Rejected access token", "path", r.URL.Path, "error", err)
			_ = httputil.WriteError(w, apperrors.Unauthorized(msg))
			return
		}

		ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: claims.Subject, Role: claims.Role})
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole authenticates and then allows only callers holding role.
func (a *Authenticator) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, _ := auth.PrincipalFrom(r.Context())
		if p.Role != role {
			a.log.WithContext(r.Context()).Warn("Role check failed", "required", role, "role", p.Role, "user_id", p.UserID)
			_ = httputil.WriteError(w, apperrors.Forbidden(deniedMessage(role)))
			return
		}
		next(w, r, ps)
	})
}

func deniedMessage(role string) string {
	switch role {
	case config.RoleProfessor:
		return "Access denied, professors only"
	case config.RoleStudent:
		return "Access denied, students only"
	default:
		return "Access denied"
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
