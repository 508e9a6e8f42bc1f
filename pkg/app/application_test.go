package app

import (
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

	"github.com/shamian84/college-appointment-system/pkg/config"
	"github.com/shamian84/college-appointment-system/pkg/contracts"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/middleware"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Second,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

func newTestApplication(t *testing.T, created *atomic.Int32) *Application {
	t.Helper()
	a := NewApplication(testConfig())
	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})
	api := routes(func(r *httprouter.Router) {
		r.POST("/items", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			created.Add(1)
			w.WriteHeader(http.StatusCreated)
		})
	})
	a.SetApp(api, health)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func TestApplication_Routing(t *testing.T) {
	var created atomic.Int32
	a := newTestApplication(t, &created)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int32(1), created.Load())
}

func TestApplication_APIChain(t *testing.T) {
	t.Run("rejects non-JSON bodies", func(t *testing.T) {
		var created atomic.Int32
		a := newTestApplication(t, &created)

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("x=1"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Zero(t, created.Load())
	})

	t.Run("replays idempotent requests", func(t *testing.T) {
		var created atomic.Int32
		a := newTestApplication(t, &created)

		for range 2 {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(middleware.IdempotencyHeader, "key-1")
			rec := httptest.NewRecorder()
			a.Handler().ServeHTTP(rec, req)
			require.Equal(t, http.StatusCreated, rec.Code)
		}
		assert.Equal(t, int32(1), created.Load())
	})
}

func TestApplication_OnShutdownOrder(t *testing.T) {
	var created atomic.Int32
	a := newTestApplication(t, &created)

	var order []string
	a.OnShutdown(
		contracts.StopFunc(func() { order = append(order, "first") }),
		contracts.StopFunc(func() { order = append(order, "second") }),
	)
	a.gracefulShutdown()

	assert.Equal(t, []string{"first", "second"}, order)
}
