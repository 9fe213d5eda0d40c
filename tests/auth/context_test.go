package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
)

func TestWithUserContext_RoundTrip(t *testing.T) {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Maria Silva",
		Email:       "maria@exxata.com.br",
		Role:        domain.RoleManager,
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)

	got, ok := auth.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userCtx, got)
}

func TestFromContext_Missing(t *testing.T) {
	got, ok := auth.FromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestUserContext_IsStaff(t *testing.T) {
	tests := []struct {
		name     string
		userCtx  *auth.UserContext
		expected bool
	}{
		{
			name:     "admin is staff",
			userCtx:  &auth.UserContext{Role: domain.RoleAdmin},
			expected: true,
		},
		{
			name:     "manager is staff",
			userCtx:  &auth.UserContext{Role: domain.RoleManager},
			expected: true,
		},
		{
			name:     "collaborator is not staff",
			userCtx:  &auth.UserContext{Role: domain.RoleCollaborator},
			expected: false,
		},
		{
			name:     "client is not staff",
			userCtx:  &auth.UserContext{Role: domain.RoleClient},
			expected: false,
		},
		{
			name:     "service account is always staff",
			userCtx:  &auth.UserContext{Role: domain.RoleClient, IsService: true},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.userCtx.IsStaff())
		})
	}
}
