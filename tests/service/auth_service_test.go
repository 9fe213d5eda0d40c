package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/service"
)

func (f *fixture) withAuth() *service.AuthService {
	return service.NewAuthService(repository.NewProfileRepository(f.db), zap.NewNop())
}

func TestMe_CreatesProfileOnFirstLogin(t *testing.T) {
	f := setup(t)
	authSvc := f.withAuth()

	userID := uuid.New()
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: "Maria da Silva",
		Email:       "maria@exxata.com.br",
		Role:        domain.RoleManager,
	})

	me, err := authSvc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "MS", me.Initials)
	assert.Contains(t, me.Permissions, domain.PermissionManageTeam)

	// the row now exists with the token's role
	var profile domain.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", userID).Error)
	assert.Equal(t, domain.RoleManager, profile.Role)
	assert.Equal(t, domain.UserStatusActive, profile.Status)
}

func TestMe_ExistingProfileWins(t *testing.T) {
	f := setup(t)
	authSvc := f.withAuth()

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleClient)

	// the database role wins over whatever the token asserts
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: userID,
		Role:   domain.RoleAdmin,
	})

	me, err := authSvc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, me.Role)
	assert.NotContains(t, me.Permissions, domain.PermissionManageTeam)
}

func TestMe_ServiceAccount(t *testing.T) {
	f := setup(t)
	authSvc := f.withAuth()

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.Nil,
		DisplayName: "Sistema",
		Role:        domain.RoleAdmin,
		IsService:   true,
	})

	me, err := authSvc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sistema", me.Name)
	assert.Contains(t, me.Permissions, domain.PermissionDeleteProjects)

	// no profile row gets created for the system account
	var count int64
	f.db.Model(&domain.Profile{}).Count(&count)
	assert.Zero(t, count)
}

func TestMe_Unauthenticated(t *testing.T) {
	f := setup(t)
	authSvc := f.withAuth()

	_, err := authSvc.Me(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestMe_TouchesLastLogin(t *testing.T) {
	f := setup(t)
	authSvc := f.withAuth()

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleCollaborator)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: userID,
		Role:   domain.RoleCollaborator,
	})

	_, err := authSvc.Me(ctx)
	require.NoError(t, err)

	var profile domain.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", userID).Error)
	assert.NotNil(t, profile.LastLoginAt)
}
