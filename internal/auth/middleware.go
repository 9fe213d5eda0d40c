package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/domain"
)

// Middleware authenticates HTTP requests, either by Supabase JWT or by
// the internal service key.
type Middleware struct {
	jwtValidator *JWTValidator
	serviceKey   string
	logger       *zap.Logger
}

func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Supabase),
		serviceKey:   cfg.Supabase.ServiceKey,
		logger:       logger,
	}
}

// Authenticate resolves the caller identity and stores it on the
// request context. An x-api-key header takes precedence over a Bearer
// token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			m.authenticateServiceKey(w, r, next, apiKey)
			return
		}

		userCtx, errMsg := m.bearerUser(r)
		if userCtx == nil {
			http.Error(w, errMsg, http.StatusUnauthorized)
			return
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("role", string(userCtx.Role)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// The service key grants a synthetic staff context. Used by the
// warehouse sync job and internal tooling, never by the frontend.
func (m *Middleware) authenticateServiceKey(w http.ResponseWriter, r *http.Request, next http.Handler, key string) {
	if m.serviceKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.serviceKey)) != 1 {
		m.logger.Warn("invalid service key attempt",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userCtx := &UserContext{
		UserID:      uuid.MustParse("00000000-0000-0000-0000-000000000000"),
		DisplayName: "Sistema",
		Email:       "sistema@exxata.com.br",
		Role:        domain.RoleAdmin,
		IsService:   true,
	}

	m.logger.Info("request authenticated",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("auth_type", "service_key"),
	)

	next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
}

func (m *Middleware) bearerUser(r *http.Request) (*UserContext, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, "Unauthorized: missing authorization header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "Unauthorized: invalid authorization header format"
	}

	userCtx, err := m.jwtValidator.ValidateToken(parts[1])
	if err != nil {
		m.logger.Warn("token validation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return nil, "Unauthorized: " + err.Error()
	}
	return userCtx, ""
}

// RequireStaff rejects callers who are neither admins nor managers.
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}
		if !userCtx.IsStaff() {
			http.Error(w, "Forbidden: staff access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route group on a single role permission.
func (m *Middleware) RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}
			if !userCtx.HasPermission(permission) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
