package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/exxata/connect-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.Role
	IsService   bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// IsStaff reports whether the user sees every project regardless of
// membership
func (u *UserContext) IsStaff() bool {
	return u.IsService || u.Role.IsStaff()
}

// HasPermission checks a capability against the user's role. Service
// callers carry every permission.
func (u *UserContext) HasPermission(permission domain.Permission) bool {
	if u.IsService {
		return true
	}
	return domain.HasPermission(u.Role, permission)
}

// Permissions returns the user's full capability set
func (u *UserContext) Permissions() []domain.Permission {
	return domain.PermissionsByRole(u.Role)
}
