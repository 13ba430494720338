package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shlink-go/internal/handlers"
	"github.com/serroba/shlink-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

// serve registers a probe route, sends req through the middleware and
// returns the metadata the handler saw.
func serve(t *testing.T, req *http.Request, trustProxyHeaders bool) handlers.RequestMeta {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api, trustProxyHeaders))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	return <-metaChan
}

func TestRequestMeta(t *testing.T) {
	t.Run("extracts user-agent and referrer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://example.com")

		meta := serve(t, req, true)

		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://example.com", meta.Referrer)
	})

	t.Run("extracts IP from X-Forwarded-For with single IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1")

		assert.Equal(t, "192.168.1.1", serve(t, req, true).ClientIP)
	})

	t.Run("extracts first IP from X-Forwarded-For with multiple IPs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")

		assert.Equal(t, "192.168.1.1", serve(t, req, true).ClientIP)
	})

	t.Run("extracts IP from X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")

		assert.Equal(t, "10.0.0.1", serve(t, req, true).ClientIP)
	})

	t.Run("falls back to remote address without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:51234"

		assert.Equal(t, "203.0.113.7", serve(t, req, true).ClientIP)
	})

	t.Run("leaves missing headers empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		meta := serve(t, req, true)

		assert.Empty(t, meta.UserAgent)
		assert.Empty(t, meta.Referrer)
	})

	t.Run("ignores proxy headers from untrusted clients", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		req.Header.Set("X-Forwarded-For", "192.168.1.1")
		req.Header.Set("X-Real-IP", "10.0.0.1")

		assert.Equal(t, "203.0.113.7", serve(t, req, false).ClientIP)
	})
}
