package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler(seen *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trace, ok := r.Context().Value(config.TRACE_ID_KEY).(string); ok {
			*seen = trace
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestWrap_InjectsTrace(t *testing.T) {
	chain := New(Options{})
	var seen string

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		chain.Wrap(okHandler(&seen))(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Trace-Id"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Trace-Id", "abc-123")
		rr := httptest.NewRecorder()
		chain.Wrap(okHandler(&seen))(rr, req)

		assert.Equal(t, "abc-123", seen)
	})
}

func TestWrap_Auth(t *testing.T) {
	chain := New(Options{AuthToken: "s3cret"})
	var seen string

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			chain.Wrap(okHandler(&seen))(rr, req)
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rr.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestIsValidBearerToken_NoTokenConfigured(t *testing.T) {
	assert.True(t, IsValidBearerToken("", "", logger_i.NewLogger("test")))
}

func TestWrap_RateLimit(t *testing.T) {
	chain := New(Options{Limiter: NewIPRateLimiter(rate.Every(time.Hour), 2)})
	var seen string

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		chain.Wrap(okHandler(&seen))(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	chain.Wrap(okHandler(&seen))(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSentry_PassesThrough(t *testing.T) {
	handler := Sentry(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestSentry_RecoversPanic(t *testing.T) {
	handler := Sentry(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
