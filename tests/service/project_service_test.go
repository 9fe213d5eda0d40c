package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

func TestProjectCreate_SeedsDefaults(t *testing.T) {
	f := setup(t)
	ctx, userID := ctxAs(domain.RoleManager)

	dto := f.createProject(t, ctx, "Duplicadora Norte")

	// the creator joins the team immediately
	require.Len(t, dto.Members, 1)
	assert.Equal(t, userID, dto.Members[0].UserID)

	// the overview grid starts populated
	assert.NotEmpty(t, dto.OverviewConfig.Widgets)

	// all three panorama categories exist, all green
	panoramas, err := f.panorama.List(ctx, dto.ID)
	require.NoError(t, err)
	require.Len(t, panoramas, 3)
	for _, p := range panoramas {
		assert.Equal(t, domain.PanoramaStatusGreen, p.Status)
	}
}

func TestProjectCreate_ClientForbidden(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleClient)

	_, err := f.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Obra"})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestProjectGetByID_HiddenReadsAsNotFound(t *testing.T) {
	f := setup(t)
	staffCtx, _ := ctxAs(domain.RoleAdmin)
	project := f.createProject(t, staffCtx, "Obra Restrita")

	outsiderCtx, _ := ctxAs(domain.RoleClient)
	_, err := f.projects.GetByID(outsiderCtx, project.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	// staff always see it
	got, err := f.projects.GetByID(staffCtx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obra Restrita", got.Name)
}

func TestProjectGetByID_MemberSeesProject(t *testing.T) {
	f := setup(t)
	staffCtx, _ := ctxAs(domain.RoleAdmin)
	project := f.createProject(t, staffCtx, "Obra Compartilhada")

	memberCtx, memberID := ctxAs(domain.RoleClient)
	require.NoError(t, f.db.Create(&domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    memberID,
		Role:      domain.RoleClient,
		Status:    domain.MemberStatusActive,
	}).Error)

	got, err := f.projects.GetByID(memberCtx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestProjectList_FiltersByVisibility(t *testing.T) {
	f := setup(t)
	managerCtx, _ := ctxAs(domain.RoleManager)
	f.createProject(t, managerCtx, "Primeira")
	f.createProject(t, managerCtx, "Segunda")

	clientCtx, _ := ctxAs(domain.RoleClient)
	page, err := f.projects.List(clientCtx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	page, err = f.projects.List(managerCtx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestProjectPatch(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	updated, err := f.projects.Patch(ctx, project.ID, domain.ProjectPatch{
		"name":            "Obra Renomeada",
		"billingProgress": 120.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Obra Renomeada", updated.Name)
	assert.Equal(t, 100.0, updated.BillingProgress)
}

func TestProjectPatch_UnknownFieldWritesNothing(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := f.projects.Patch(ctx, project.ID, domain.ProjectPatch{
		"name":      "Renomeada",
		"companyId": "x",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	got, err := f.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obra", got.Name)
}

func TestProjectPatch_EmptyPatch(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := f.projects.Patch(ctx, project.ID, domain.ProjectPatch{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProjectDelete(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleAdmin)
	project := f.createProject(t, ctx, "Obra")

	// collaborators cannot delete
	collabCtx, collabID := ctxAs(domain.RoleCollaborator)
	require.NoError(t, f.db.Create(&domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    collabID,
		Role:      domain.RoleCollaborator,
		Status:    domain.MemberStatusActive,
	}).Error)
	err := f.projects.Delete(collabCtx, project.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	require.NoError(t, f.projects.Delete(ctx, project.ID))

	_, err = f.projects.GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	err = f.projects.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}
