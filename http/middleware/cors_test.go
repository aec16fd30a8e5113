package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"course-payments/config"

	"github.com/stretchr/testify/assert"
)

func corsHandler(t *testing.T, origins []string) http.HandlerFunc {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.CORSAllowedOrigins = origins
	t.Cleanup(func() { config.AppConfig = prev })

	return EnableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	handler := corsHandler(t, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSSkipsUnlistedOrigin(t *testing.T) {
	handler := corsHandler(t, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still runs; CORS is enforced by the browser.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSWildcard(t *testing.T) {
	handler := corsHandler(t, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	prev := config.AppConfig
	config.AppConfig.CORSAllowedOrigins = []string{"*"}
	t.Cleanup(func() { config.AppConfig = prev })

	handler := EnableCORS(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/create-order", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called, "preflight must not reach the handler")
}
