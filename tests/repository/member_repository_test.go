package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/repository"
)

func TestMemberRemove_SoftDelete(t *testing.T) {
	db := setupRepoDB(t)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	owner := createProfile(t, db, "owner")
	user := createProfile(t, db, "user")
	project := createProject(t, db, "Obra", owner.ID)

	err := repo.Add(ctx, &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      domain.RoleCollaborator,
		Status:    domain.MemberStatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, project.ID, user.ID))

	members, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	// the row survives so rejoining keeps the original record
	member, err := repo.GetByProjectAndUser(ctx, project.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusRemoved, member.Status)

	member.Status = domain.MemberStatusActive
	member.Role = domain.RoleManager
	require.NoError(t, repo.Update(ctx, member))

	members, err = repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, domain.RoleManager, members[0].Role)
}

func TestMemberUpdateRole(t *testing.T) {
	db := setupRepoDB(t)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	owner := createProfile(t, db, "owner")
	user := createProfile(t, db, "user")
	project := createProject(t, db, "Obra", owner.ID)

	member := &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      domain.RoleClient,
		Status:    domain.MemberStatusActive,
	}
	require.NoError(t, repo.Add(ctx, member))

	require.NoError(t, repo.UpdateRole(ctx, member.ID, domain.RoleCollaborator))

	got, err := repo.GetByProjectAndUser(ctx, project.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCollaborator, got.Role)

	err = repo.UpdateRole(ctx, uuid.New(), domain.RoleClient)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListProjectIDsForUser(t *testing.T) {
	db := setupRepoDB(t)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	owner := createProfile(t, db, "owner")
	user := createProfile(t, db, "user")
	first := createProject(t, db, "Primeira", owner.ID)
	second := createProject(t, db, "Segunda", owner.ID)

	for _, projectID := range []uuid.UUID{first.ID, second.ID} {
		require.NoError(t, repo.Add(ctx, &domain.ProjectMember{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    user.ID,
			Role:      domain.RoleClient,
			Status:    domain.MemberStatusActive,
		}))
	}
	require.NoError(t, repo.Remove(ctx, second.ID, user.ID))

	ids, err := repo.ListProjectIDsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)
}
