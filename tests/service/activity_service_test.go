package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) createActivity(t *testing.T, ctx context.Context, projectID uuid.UUID, req domain.CreateActivityRequest) *domain.ProjectActivityDTO {
	t.Helper()
	dto, err := f.activity.Create(ctx, projectID, &req)
	require.NoError(t, err)
	return dto
}

func TestActivityCreate(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	dto := f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		CustomID:  "AT-1",
		Title:     "Levantamento de campo",
		StartDate: date(2025, 3, 3),
		EndDate:   date(2025, 3, 7),
	})

	assert.Equal(t, domain.ActivityStatusTodo, dto.Status)
	assert.Equal(t, "2025-03-03", dto.StartDate)
	assert.Equal(t, "2025-03-07", dto.EndDate)
}

func TestActivityCreate_InvalidDateRange(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := f.activity.Create(ctx, project.ID, &domain.CreateActivityRequest{
		Title:     "Invertida",
		StartDate: date(2025, 3, 10),
		EndDate:   date(2025, 3, 5),
	})
	assert.ErrorIs(t, err, service.ErrInvalidDateRange)
}

func TestActivityCreate_InvalidStatus(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := f.activity.Create(ctx, project.ID, &domain.CreateActivityRequest{
		Title:  "Atividade",
		Status: "Cancelada",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestActivityDuplicate(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	original := f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		CustomID:  "AT-1",
		Title:     "Medição mensal",
		StartDate: date(2025, 3, 3),
		EndDate:   date(2025, 3, 7),
		Status:    domain.ActivityStatusDone,
	})

	clone, err := f.activity.Duplicate(ctx, project.ID, original.ID)
	require.NoError(t, err)

	assert.Equal(t, "Medição mensal (cópia)", clone.Title)
	// the copy starts fresh
	assert.Equal(t, domain.ActivityStatusTodo, clone.Status)
	// both dates shift by the duration plus one day
	assert.Equal(t, "2025-03-08", clone.StartDate)
	assert.Equal(t, "2025-03-12", clone.EndDate)
}

func TestActivityDuplicate_NoDates(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	original := f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		Title: "Sem datas",
	})

	clone, err := f.activity.Duplicate(ctx, project.ID, original.ID)
	require.NoError(t, err)
	assert.Empty(t, clone.StartDate)
	assert.Empty(t, clone.EndDate)
}

func TestActivityList_NaturalSortByCustomID(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	for _, id := range []string{"AT-10", "AT-2", "AT-1"} {
		f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
			CustomID: id,
			Title:    "Atividade " + id,
		})
	}

	items, err := f.activity.List(ctx, project.ID, "customId", false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "AT-1", items[0].CustomID)
	assert.Equal(t, "AT-2", items[1].CustomID)
	assert.Equal(t, "AT-10", items[2].CustomID)

	items, err = f.activity.List(ctx, project.ID, "customId", true)
	require.NoError(t, err)
	assert.Equal(t, "AT-10", items[0].CustomID)
}

func TestActivityUpdate(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	original := f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		CustomID: "AT-1",
		Title:    "Atividade",
	})

	updated, err := f.activity.Update(ctx, project.ID, original.ID, &domain.UpdateActivityRequest{
		CustomID: "AT-1",
		Title:    "Atividade Revisada",
		Status:   domain.ActivityStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Atividade Revisada", updated.Title)
	assert.Equal(t, domain.ActivityStatusInProgress, updated.Status)
}

func TestActivityUpdate_WrongProject(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	first := f.createProject(t, ctx, "Primeira")
	second := f.createProject(t, ctx, "Segunda")

	activity := f.createActivity(t, ctx, first.ID, domain.CreateActivityRequest{
		Title: "Atividade",
	})

	_, err := f.activity.Update(ctx, second.ID, activity.ID, &domain.UpdateActivityRequest{
		Title: "Sequestrada",
	})
	assert.ErrorIs(t, err, service.ErrActivityNotFound)
}

func TestActivityTimeline(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	// 2025-03-05 is a Wednesday; the window rounds back to Monday the 3rd
	f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		Title:     "Primeira",
		StartDate: date(2025, 3, 5),
		EndDate:   date(2025, 3, 12),
	})
	f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		Title:     "Segunda",
		StartDate: date(2025, 3, 10),
		EndDate:   date(2025, 3, 16),
	})
	// undated activities stay off the chart
	f.createActivity(t, ctx, project.ID, domain.CreateActivityRequest{
		Title: "Sem datas",
	})

	timeline, err := f.activity.Timeline(ctx, project.ID)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", timeline.WindowStart)
	assert.Equal(t, "2025-03-16", timeline.WindowEnd)
	assert.Equal(t, 14, timeline.TotalDays)
	require.Len(t, timeline.Bars, 2)

	first := timeline.Bars[0]
	assert.InDelta(t, 2.0/14*100, first.OffsetPct, 0.01)
	assert.InDelta(t, 8.0/14*100, first.WidthPct, 0.01)
}

func TestActivityTimeline_Empty(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	timeline, err := f.activity.Timeline(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline.Bars)
	assert.Zero(t, timeline.TotalDays)
}
