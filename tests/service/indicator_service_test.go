package service_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

func TestIndicatorCreate_AppendsToBoard(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	first, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Avanço Físico",
		ChartType: domain.ChartTypeBar,
	})
	require.NoError(t, err)
	second, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Curva S",
		ChartType: domain.ChartTypeLine,
	})
	require.NoError(t, err)

	assert.Less(t, first.Position, second.Position)
}

func TestIndicatorCreate_UnsupportedChartType(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Radar",
		ChartType: "radar",
	})
	assert.ErrorIs(t, err, service.ErrUnsupportedChartType)
}

func TestIndicatorDuplicate(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	original, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Avanço Físico",
		ChartType: domain.ChartTypeBar,
		Labels:    []string{"Jan", "Fev"},
	})
	require.NoError(t, err)

	clone, err := indicators.Duplicate(ctx, project.ID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Avanço Físico (cópia)", clone.Title)
	assert.Equal(t, []string{"Jan", "Fev"}, clone.Labels)
	assert.Greater(t, clone.Position, original.Position)
}

func TestIndicatorReorder(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	var ids []uuid.UUID
	for _, title := range []string{"Primeiro", "Segundo", "Terceiro"} {
		dto, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
			Title:     title,
			ChartType: domain.ChartTypeBar,
		})
		require.NoError(t, err)
		ids = append(ids, dto.ID)
	}

	require.NoError(t, indicators.Reorder(ctx, project.ID, []uuid.UUID{ids[2], ids[0], ids[1]}))

	items, err := indicators.List(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Terceiro", items[0].Title)
	assert.Equal(t, "Primeiro", items[1].Title)
	assert.Equal(t, "Segundo", items[2].Title)
}

func indicatorWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestIndicatorImportData(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	indicator, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Avanço por Mês",
		ChartType: domain.ChartTypeBar,
	})
	require.NoError(t, err)

	buf := indicatorWorkbook(t, [][]interface{}{
		{"Série", "Jan", "Fev", "Mar"},
		{"Previsto", "1.000,00", 2000, 3000},
		{"Realizado", 900, 2100, nil},
	})

	updated, err := indicators.ImportData(ctx, project.ID, indicator.ID, buf, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Jan", "Fev", "Mar"}, updated.Labels)
	require.Len(t, updated.Datasets, 2)
	assert.Equal(t, "Previsto", updated.Datasets[0].Name)
	assert.Equal(t, "Realizado", updated.Datasets[1].Name)
	// gaps stay null rather than becoming zeros
	assert.JSONEq(t, "null", string(updated.Datasets[1].Values[2]))
	assert.JSONEq(t, "1000", string(updated.Datasets[0].Values[0]))
}

func TestIndicatorImportData_PieUsesValueColumn(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	indicator, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Distribuição",
		ChartType: domain.ChartTypePie,
	})
	require.NoError(t, err)

	buf := indicatorWorkbook(t, [][]interface{}{
		{"Categoria", "Previsto", "Realizado"},
		{"Civil", 100, 80},
		{"Elétrica", 50, 70},
	})

	updated, err := indicators.ImportData(ctx, project.ID, indicator.ID, buf, "Realizado")
	require.NoError(t, err)

	assert.Equal(t, []string{"Civil", "Elétrica"}, updated.Labels)
	require.Len(t, updated.Datasets, 1)
	assert.Equal(t, "Realizado", updated.Datasets[0].Name)
	assert.JSONEq(t, "80", string(updated.Datasets[0].Values[0]))
	assert.JSONEq(t, "70", string(updated.Datasets[0].Values[1]))
}

func TestIndicatorImportData_PieUnknownColumn(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	indicator, err := indicators.Create(ctx, project.ID, &domain.CreateIndicatorRequest{
		Title:     "Distribuição",
		ChartType: domain.ChartTypePie,
	})
	require.NoError(t, err)

	buf := indicatorWorkbook(t, [][]interface{}{
		{"Categoria", "Previsto"},
		{"Civil", 100},
	})

	_, err = indicators.ImportData(ctx, project.ID, indicator.ID, buf, "Inexistente")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestIndicatorDuplicate_WrongProject(t *testing.T) {
	f := setup(t)
	indicators := f.withIndicators()
	ctx, _ := ctxAs(domain.RoleManager)
	first := f.createProject(t, ctx, "Primeira")
	second := f.createProject(t, ctx, "Segunda")

	indicator, err := indicators.Create(ctx, first.ID, &domain.CreateIndicatorRequest{
		Title:     "Avanço",
		ChartType: domain.ChartTypeBar,
	})
	require.NoError(t, err)

	_, err = indicators.Duplicate(ctx, second.ID, indicator.ID)
	assert.ErrorIs(t, err, service.ErrIndicatorNotFound)
}
