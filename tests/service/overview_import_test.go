package service_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/excel"
	"github.com/exxata/connect-api/internal/service"
)

func overviewWorkbook(t *testing.T, rows []excel.OverviewRow) *bytes.Buffer {
	t.Helper()
	f, err := excel.BuildOverviewWorkbook(excel.OverviewMeta{
		ProjectName: "Obra Importada",
		ProjectID:   "import-test",
		ExportedAt:  time.Now(),
	}, rows, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestOverviewImportExcel(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	buf := overviewWorkbook(t, []excel.OverviewRow{
		{Label: "Cliente Final", Value: "Construtora Beta"},
		{Label: "Valor do Contrato", Value: "R$ 2.500.000,00"},
		{Label: "Progresso de Prazo (%)", Value: "37,5%"},
		{Label: "Data de Corte do Relatório", Value: "15/08/2025"},
		{Label: "Descrição do Projeto", Value: "Pleito de reequilíbrio", Large: true},
	})

	dto, err := f.overview.ImportExcel(ctx, project.ID, buf)
	require.NoError(t, err)

	assert.Equal(t, "Construtora Beta", dto.Client)
	assert.Equal(t, 2500000.0, dto.ContractValue)
	assert.Equal(t, 37.5, dto.Progress)
	assert.Equal(t, "2025-08-15", dto.ReportCutoffDate)

	// the widget set mirrors the imported rows, sizes included
	types := widgetTypes(dto.OverviewConfig)
	assert.Equal(t, []string{"client", "contractValue", "progress", "reportCutoffDate", "description"}, types)
	assert.Equal(t, domain.WidgetSizeLarge, dto.OverviewConfig.Widgets[4].Size)
}

// Spreadsheets produced by the legacy portal write percentage rows with
// a "(%)" label suffix and fraction values; both must come back as
// whole percentages.
func TestOverviewImportExcel_LegacyPortalLabels(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	buf := overviewWorkbook(t, []excel.OverviewRow{
		{Label: "Progresso de Prazo (%)", Value: "0.4"},
		{Label: "Progresso em Faturamento (%)", Value: "40%"},
		{Label: "Valor do Homem-Hora", Value: "R$ 350,00"},
		{Label: "Valor em Discussão", Value: "R$ 1.200.000,00"},
		{Label: "Título do Contrato", Value: "Contrato EPC 042"},
		{Label: "Equipe do Projeto", Value: "Helena, João"},
	})

	dto, err := f.overview.ImportExcel(ctx, project.ID, buf)
	require.NoError(t, err)

	assert.Equal(t, 40.0, dto.Progress)
	assert.Equal(t, 40.0, dto.BillingProgress)
	assert.Equal(t, 350.0, dto.HourlyRate)
	assert.Equal(t, 1200000.0, dto.DisputedAmount)
	assert.Equal(t, "Contrato EPC 042", dto.ContractSummary)
	assert.Equal(t,
		[]string{"progress", "billingProgress", "hourlyRate", "disputedAmount", "contractSummary", "team"},
		widgetTypes(dto.OverviewConfig))
}

// Display labels (without the "(%)" suffix) import the same way.
func TestOverviewImportExcel_PlainPercentLabel(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	buf := overviewWorkbook(t, []excel.OverviewRow{
		{Label: "Progresso de Prazo", Value: "62,5%"},
	})

	dto, err := f.overview.ImportExcel(ctx, project.ID, buf)
	require.NoError(t, err)
	assert.Equal(t, 62.5, dto.Progress)
}

func TestOverviewImportExcel_SkipsUnknownAndPlaceholder(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	buf := overviewWorkbook(t, []excel.OverviewRow{
		{Label: "Coluna Inventada", Value: "x"},
		{Label: "Cliente Final", Value: "—"},
		{Label: "Setor de Atuação", Value: "Energia"},
	})

	dto, err := f.overview.ImportExcel(ctx, project.ID, buf)
	require.NoError(t, err)

	// placeholder values keep the card but write nothing
	assert.Equal(t, "Cliente Teste", dto.Client)
	assert.Equal(t, "Energia", dto.Sector)
	assert.Equal(t, []string{"client", "sector"}, widgetTypes(dto.OverviewConfig))
}

func TestOverviewImportExcel_NoImportableRows(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	buf := overviewWorkbook(t, []excel.OverviewRow{
		{Label: "Linha Estranha", Value: "x"},
	})

	_, err := f.overview.ImportExcel(ctx, project.ID, buf)
	assert.ErrorIs(t, err, service.ErrNoImportableRows)
}

func TestOverviewImportExcel_NotAWorkbook(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := f.overview.ImportExcel(ctx, project.ID, bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestOverviewExportExcel_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra Exportada")

	_, err := f.projects.Patch(ctx, project.ID, domain.ProjectPatch{
		"contractValue": 1500000.0,
	})
	require.NoError(t, err)

	workbook, err := f.overview.ExportExcel(ctx, project.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	dto, err := f.overview.ImportExcel(ctx, project.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Obra Exportada", dto.Name)
	assert.Equal(t, 1500000.0, dto.ContractValue)
}
