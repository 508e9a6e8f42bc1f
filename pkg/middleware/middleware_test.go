package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamian84/college-appointment-system/pkg/auth"
	httputil "github.com/shamian84/college-appointment-system/pkg/http"
	"github.com/shamian84/college-appointment-system/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard, Service: "test"})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

// ────── logging ──────

func TestRequestLogging_RequestID(t *testing.T) {
	var seen string
	h := RequestLogging(newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/professor", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/professor", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied-id", seen)

	req = httptest.NewRequest(http.MethodGet, "/professor", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, strings.Repeat("x", 500), seen)
}

// ────── recovery ──────

func TestRecovery(t *testing.T) {
	h := Recovery(newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, rec.Body.String(), "boom")
}

// ────── timeout ──────

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		_, _ = w.Write([]byte("late"))
	})

	rec := httptest.NewRecorder()
	RequestTimeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "TIMEOUT", decodeError(t, rec).Code)
}

func TestRequestTimeout_FastHandlerKeepsHeaders(t *testing.T) {
	fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "1")
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	RequestTimeout(time.Second)(fast).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Custom"))
}

func TestRequestTimeout_PanicReachesRecovery(t *testing.T) {
	h := Recovery(newTestLogger())(RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("inside")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ────── content type and size ──────

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(newTestLogger())(okHandler)

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"missing header with body", http.MethodPatch, `{}`, "", http.StatusUnsupportedMediaType},
		{"bodiless patch", http.MethodPatch, "", "", http.StatusOK},
		{"get ignores header", http.MethodGet, "", "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/x", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ────── rate limit ──────

func TestRateLimit_PerClient(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Minute, nil, newTestLogger())
	defer limiter.Stop()
	h := RateLimit(limiter)(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/professor", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1111"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", ClientIP(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", ClientIP(req))
}

// ────── idempotency ──────

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte{byte('0' + n)})
	}))

	send := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyHeader, "key-1")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("/student/book/p1", "a")
	second := send("/student/book/p1", "a")
	assert.Equal(t, "1", first.Body.String())
	assert.Equal(t, "1", second.Body.String())
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	assert.Equal(t, "2", send("/student/book/p2", "a").Body.String(), "different path is a different entry")
	assert.Equal(t, "3", send("/student/book/p1", "b").Body.String(), "different caller is a different entry")
}

func TestIdempotency_SkipsFailuresAndReads(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(IdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(2), calls.Load())
}

// ────── auth ──────

func TestAuthenticator(t *testing.T) {
	tokens := auth.NewTokenManager("middleware-test-secret", time.Minute, time.Hour)
	a := NewAuthenticator(tokens, newTestLogger())

	var principal auth.Principal
	handle := a.RequireRole("professor", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		principal, _ = auth.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	professorToken, err := tokens.IssueAccessToken("prof-1", "professor")
	require.NoError(t, err)
	studentToken, err := tokens.IssueAccessToken("stud-1", "student")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		want     int
		wantBody string
	}{
		{"no token", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, "Not authorized, token failed"},
		{"wrong role", "Bearer " + studentToken, http.StatusForbidden, "Access denied, professors only"},
		{"professor", "Bearer " + professorToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/professor/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handle(rec, req, nil)

			assert.Equal(t, tt.want, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, decodeError(t, rec).Error)
			}
		})
	}

	assert.Equal(t, "prof-1", principal.UserID)
}

func TestDeniedMessage(t *testing.T) {
	assert.Equal(t, "Access denied, students only", deniedMessage("student"))
	assert.Equal(t, "Access denied", deniedMessage("admin"))
}
