package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/http/middleware"
)

func newLimiter(cfg *config.RateLimitConfig) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg, zap.NewNop())
}

func okHandler(counter *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if counter != nil {
			*counter++
		}
		w.WriteHeader(http.StatusOK)
	})
}

// fire sends n GET requests through the handler and returns how many
// came back 200 and how many 429.
func fire(h http.Handler, n int, path, remoteAddr string, headers map[string]string) (ok, limited int) {
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		switch w.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	return ok, limited
}

func TestRateLimiter_DisabledPassesEverything(t *testing.T) {
	calls := 0
	rl := newLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 5})
	h := rl.LimitByIP(okHandler(&calls))

	ok, limited := fire(h, 100, "/api/v1/projects", "192.168.1.1:12345", nil)

	assert.Equal(t, 100, ok)
	assert.Zero(t, limited)
	assert.Equal(t, 100, calls)
}

func TestRateLimiter_ExemptIP(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"127.0.0.1"},
	})
	h := rl.LimitByIP(okHandler(nil))

	ok, limited := fire(h, 50, "/api/v1/projects", "127.0.0.1:12345", nil)

	assert.Equal(t, 50, ok)
	assert.Zero(t, limited)
}

func TestRateLimiter_ExemptPathExactAndPrefix(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health", "/health/*"},
	})
	h := rl.LimitByIP(okHandler(nil))

	for _, path := range []string{"/health", "/health/db", "/health/ready"} {
		ok, limited := fire(h, 20, path, "192.168.1.1:12345", nil)
		assert.Equal(t, 20, ok, path)
		assert.Zero(t, limited, path)
	}
}

func TestRateLimiter_Throttles(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 5,
		BurstSize:         5,
	})
	h := rl.LimitByIP(okHandler(nil))

	ok, limited := fire(h, 20, "/api/v1/projects", "192.168.1.100:12345", nil)

	assert.Greater(t, ok, 0)
	assert.Greater(t, limited, 0)
}

func TestRateLimiter_PerIPBuckets(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 3,
		BurstSize:         3,
	})
	h := rl.LimitByIP(okHandler(nil))

	// each address gets its own bucket, so a handful of requests from a
	// fresh IP must succeed even after another IP used up its budget
	fire(h, 20, "/api/v1/projects", "192.168.1.1:12345", nil)
	for _, addr := range []string{"192.168.1.2:12345", "192.168.1.3:12345"} {
		ok, _ := fire(h, 3, "/api/v1/projects", addr, nil)
		assert.Greater(t, ok, 0, addr)
	}
}

func TestRateLimiter_ProxyHeadersResolveClientIP(t *testing.T) {
	tests := []struct {
		header string
		ip     string
	}{
		{"X-Forwarded-For", "10.0.0.1"},
		{"X-Real-IP", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			rl := newLimiter(&config.RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 3,
				BurstSize:         3,
				WhitelistIPs:      []string{tt.ip},
			})
			h := rl.LimitByIP(okHandler(nil))

			ok, limited := fire(h, 20, "/api/v1/projects", "192.168.1.1:12345", map[string]string{tt.header: tt.ip})
			assert.Equal(t, 20, ok)
			assert.Zero(t, limited)
		})
	}
}

func TestRateLimiter_AuthenticatedGetsHigherBudget(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 10,
		BurstSize:             2,
	})
	h := rl.Limit(okHandler(nil))

	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Helena Duarte",
		Email:       "helena.duarte@exxata.com.br",
		Role:        domain.RoleCollaborator,
	}

	ok := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req = req.WithContext(auth.WithUserContext(context.Background(), userCtx))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			ok++
		}
	}

	assert.Greater(t, ok, 2, "authenticated budget should exceed the anonymous one")
}

func TestRateLimiter_429Response(t *testing.T) {
	rl := newLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		BurstSize:         1,
	})
	h := rl.LimitByIP(okHandler(nil))

	fire(h, 1, "/api/v1/projects", "192.168.1.200:12345", nil)
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.RemoteAddr = "192.168.1.200:12345"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code == http.StatusTooManyRequests {
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate limit exceeded")
	}
}
