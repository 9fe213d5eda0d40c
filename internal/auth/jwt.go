package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates access tokens issued by the Supabase auth
// server (GoTrue). Tokens are HS256-signed with the project's shared
// JWT secret.
type JWTValidator struct {
	config *config.SupabaseConfig
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.SupabaseConfig) *JWTValidator {
	return &JWTValidator{config: cfg}
}

// ValidateToken validates a JWT token and returns user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	if v.config.Audience != "" {
		aud, _ := claims.GetAudience()
		validAud := false
		for _, a := range aud {
			if a == v.config.Audience {
				validAud = true
				break
			}
		}
		if !validAud {
			return nil, fmt.Errorf("%w: invalid audience", ErrInvalidToken)
		}
	}

	sub := extractString(claims, "sub")
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	userCtx := &UserContext{
		UserID:      userID,
		Email:       extractString(claims, "email"),
		DisplayName: extractMetadataString(claims, "name", "full_name"),
		Role:        domain.NormalizeRole(ExtractPlatformRole(claims)),
	}

	return userCtx, nil
}

// ExtractPlatformRole reads the platform role from the token. The role
// lives in app_metadata (set by the invite flow); older tokens carry
// it in user_metadata instead. The top-level "role" claim is the
// Postgres role ("authenticated"), not ours.
func ExtractPlatformRole(claims jwt.MapClaims) string {
	for _, metaKey := range []string{"app_metadata", "user_metadata"} {
		meta, ok := claims[metaKey].(map[string]interface{})
		if !ok {
			continue
		}
		if role, ok := meta["role"].(string); ok && role != "" {
			return role
		}
	}
	return ""
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if val, ok := claims[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

func extractMetadataString(claims jwt.MapClaims, keys ...string) string {
	for _, metaKey := range []string{"user_metadata", "app_metadata"} {
		meta, ok := claims[metaKey].(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range keys {
			if str, ok := meta[key].(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}
