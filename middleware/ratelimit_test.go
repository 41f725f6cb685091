package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Handler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rl := NewRateLimiter(1, 2, logger)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/jwt", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"), "other clients have their own bucket")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rl := NewRateLimiter(1, 1, logger)
	rl.getLimiter("stale")
	rl.getLimiter("fresh")
	rl.limiters["stale"].lastSeen = time.Now().Add(-time.Hour)

	rl.Cleanup()

	assert.NotContains(t, rl.limiters, "stale")
	assert.Contains(t, rl.limiters, "fresh")
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	var seen string
	var scoped bool
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scoped = LoggerFromContext(r.Context(), nil).(*logrus.Entry)
		seen = w.Header().Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus", nil))

	assert.True(t, scoped)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, http.StatusTeapot, hook.LastEntry().Data["status"])
		assert.Equal(t, seen, hook.LastEntry().Data["request_id"])
	}
}
