package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/serroba/tinylink/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupRouter(logger *zap.Logger) *chi.Mux {
	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.AccessLog(logger))

	router.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	router.Get("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	return router
}

func TestAccessLog(t *testing.T) {
	t.Run("logs successful request at info", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := setupRouter(zap.New(core))

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.RemoteAddr = "192.0.2.10:54321"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		fields := entry.ContextMap()

		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/ok", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, int64(5), fields["bytes"])
		assert.Equal(t, "192.0.2.10", fields["client_ip"])
		assert.NotEmpty(t, fields["request_id"])
	})

	t.Run("uses forwarded client address", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := setupRouter(zap.New(core))

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "203.0.113.7", logs.All()[0].ContextMap()["client_ip"])
	})

	t.Run("strips the port of an ipv6 peer", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := setupRouter(zap.New(core))

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.RemoteAddr = "[2001:db8::1]:443"
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "2001:db8::1", logs.All()[0].ContextMap()["client_ip"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := setupRouter(zap.New(core))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, int64(http.StatusNotFound), logs.All()[0].ContextMap()["status"])
	})

	t.Run("server errors log at error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := setupRouter(zap.New(core))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	})
}
