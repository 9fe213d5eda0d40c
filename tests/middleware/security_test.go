package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/http/middleware"
)

func securityHeaders(t *testing.T, cfg *config.SecurityConfig) http.Header {
	t.Helper()
	h := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_FullConfig(t *testing.T) {
	headers := securityHeaders(t, &config.SecurityConfig{
		EnableHSTS:            false,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		XSSProtection:         "1; mode=block",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
	})

	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", headers.Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", headers.Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
	assert.Equal(t, "geolocation=(), microphone=(), camera=()", headers.Get("Permissions-Policy"))
	assert.Empty(t, headers.Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSVariants(t *testing.T) {
	tests := []struct {
		name       string
		subdomains bool
		preload    bool
		want       string
	}{
		{"base", false, false, "max-age=31536000"},
		{"subdomains", true, false, "max-age=31536000; includeSubDomains"},
		{"preload", true, true, "max-age=31536000; includeSubDomains; preload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := securityHeaders(t, &config.SecurityConfig{
				EnableHSTS:            true,
				HSTSMaxAge:            31536000,
				HSTSIncludeSubdomains: tt.subdomains,
				HSTSPreload:           tt.preload,
			})
			assert.Equal(t, tt.want, headers.Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurityHeaders_SameOriginFrames(t *testing.T) {
	headers := securityHeaders(t, &config.SecurityConfig{FrameOptions: "SAMEORIGIN"})
	assert.Equal(t, "SAMEORIGIN", headers.Get("X-Frame-Options"))
}

func TestSecurityHeaders_EmptyConfigSetsNothing(t *testing.T) {
	headers := securityHeaders(t, &config.SecurityConfig{})
	for _, name := range []string{
		"X-Content-Type-Options",
		"X-Frame-Options",
		"X-XSS-Protection",
		"Content-Security-Policy",
		"Referrer-Policy",
		"Permissions-Policy",
		"Strict-Transport-Security",
	} {
		assert.Empty(t, headers.Get(name), name)
	}
}

func TestSecurityHeaders_PassesThroughRequest(t *testing.T) {
	called := false
	h := middleware.SecurityHeaders(&config.SecurityConfig{ContentTypeNosniff: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.Write([]byte("OK"))
		}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, "OK", w.Body.String())
}
