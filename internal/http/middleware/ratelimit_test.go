package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("KIOSK-01"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("KIOSK-01"))
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow("KIOSK-01"))
	assert.False(t, rl.Allow("KIOSK-01"))
	assert.True(t, rl.Allow("KIOSK-02"))
}

func TestRateLimitMiddlewareKeyedByKioskID(t *testing.T) {
	mw := RateLimit(1, 1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(kioskID string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
		req.Header.Set("X-Kiosk-Id", kioskID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("KIOSK-01"))
	assert.Equal(t, http.StatusTooManyRequests, send("KIOSK-01"))
	assert.Equal(t, http.StatusOK, send("KIOSK-02"))
}
