package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exxata/connect-api/internal/domain"
)

func TestNormalizeProjectStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected domain.ProjectStatus
	}{
		{"ativo", domain.ProjectStatusActive},
		{"Ativo", domain.ProjectStatusActive},
		{"ACTIVE", domain.ProjectStatusActive},
		{"em andamento", domain.ProjectStatusActive},
		{"pausado", domain.ProjectStatusPaused},
		{"Suspenso", domain.ProjectStatusPaused},
		{"paused", domain.ProjectStatusPaused},
		{"concluído", domain.ProjectStatusFinished},
		{"concluido", domain.ProjectStatusFinished},
		{"Finalizado", domain.ProjectStatusFinished},
		{"completed", domain.ProjectStatusFinished},
		{"arquivado", domain.ProjectStatusArchived},
		{"Archived", domain.ProjectStatusArchived},
		{"  ativo  ", domain.ProjectStatusActive},
		{"", domain.ProjectStatusActive},
		{"qualquer coisa", domain.ProjectStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeProjectStatus(tt.raw))
		})
	}
}

func TestActivityStatus_IsValid(t *testing.T) {
	assert.True(t, domain.ActivityStatusTodo.IsValid())
	assert.True(t, domain.ActivityStatusInProgress.IsValid())
	assert.True(t, domain.ActivityStatusDone.IsValid())
	assert.False(t, domain.ActivityStatus("Pendente").IsValid())
	assert.False(t, domain.ActivityStatus("").IsValid())
}

func TestFileSource_IsValid(t *testing.T) {
	assert.True(t, domain.FileSourceClient.IsValid())
	assert.True(t, domain.FileSourceExxata.IsValid())
	assert.False(t, domain.FileSource("vendor").IsValid())
}

func TestChartType_IsValid(t *testing.T) {
	for _, ct := range []domain.ChartType{
		domain.ChartTypeBar,
		domain.ChartTypeBarHorizontal,
		domain.ChartTypeLine,
		domain.ChartTypePie,
		domain.ChartTypeDoughnut,
		domain.ChartTypeCombo,
	} {
		assert.True(t, ct.IsValid(), string(ct))
	}
	assert.False(t, domain.ChartType("radar").IsValid())
}
