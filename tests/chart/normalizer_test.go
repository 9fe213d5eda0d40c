package chart_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
)

func raw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func TestNormalize_BarCoercesGapsToZero(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeBar,
		Labels:    []string{"Jan", "Fev", "Mar"},
		Datasets: domain.DatasetList{
			{Name: "Previsto", Values: []json.RawMessage{raw(100), nil, raw("250,5")}},
		},
	}

	data := chart.Normalize(ind)

	assert.Equal(t, domain.ChartTypeBar, data.Type)
	assert.False(t, data.Empty)
	require.Len(t, data.Rows, 3)

	assert.Equal(t, 100.0, *data.Rows[0].Values["Previsto"])
	// bar charts fill gaps with zero so every label gets a bar
	assert.Equal(t, 0.0, *data.Rows[1].Values["Previsto"])
	// legacy comma decimal
	assert.Equal(t, 250.5, *data.Rows[2].Values["Previsto"])
}

func TestNormalize_LineKeepsGapsAndTrimsTrailingEmptyRows(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeLine,
		Labels:    []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun"},
		Datasets: domain.DatasetList{
			{Name: "Medição", Values: []json.RawMessage{raw(10), nil, raw(30), nil, nil, nil}},
		},
	}

	data := chart.Normalize(ind)

	// rows after the last real value are dropped
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "Mar", data.Rows[2].Name)

	// the interior gap stays nil instead of flatlining to zero
	assert.Nil(t, data.Rows[1].Values["Medição"])
	assert.Equal(t, 30.0, *data.Rows[2].Values["Medição"])
}

func TestNormalize_LineAllEmptyIsEmpty(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeLine,
		Labels:    []string{"Jan", "Fev"},
		Datasets: domain.DatasetList{
			{Name: "Medição", Values: []json.RawMessage{nil, nil}},
		},
	}

	data := chart.Normalize(ind)
	assert.True(t, data.Empty)
	assert.Empty(t, data.Rows)
}

func TestNormalize_ComboSeriesKindAndAxis(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeCombo,
		Labels:    []string{"Jan"},
		Datasets: domain.DatasetList{
			{Name: "Faturamento", Values: []json.RawMessage{raw(1)}, ChartType: domain.ChartTypeBar},
			{Name: "Avanço", Values: []json.RawMessage{raw(2)}, ChartType: domain.ChartTypeLine, YAxisID: "right"},
			{Name: "Outro", Values: []json.RawMessage{raw(3)}, ChartType: domain.ChartTypePie, YAxisID: "middle"},
		},
	}

	data := chart.Normalize(ind)
	require.Len(t, data.Series, 3)

	assert.Equal(t, domain.ChartTypeBar, data.Series[0].Kind)
	assert.Equal(t, "left", data.Series[0].AxisID)

	assert.Equal(t, domain.ChartTypeLine, data.Series[1].Kind)
	assert.Equal(t, "right", data.Series[1].AxisID)

	// invalid per-series settings degrade to bar on the left axis
	assert.Equal(t, domain.ChartTypeBar, data.Series[2].Kind)
	assert.Equal(t, "left", data.Series[2].AxisID)
}

func TestNormalize_PieReadsFirstDatasetOnly(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypePie,
		Labels:    []string{"Pleitos", "Aditivos"},
		Datasets: domain.DatasetList{
			{Name: "Valores", Values: []json.RawMessage{raw(70), raw("30")}},
			{Name: "Ignorado", Values: []json.RawMessage{raw(999), raw(999)}},
		},
	}

	data := chart.Normalize(ind)

	require.Len(t, data.Slices, 2)
	assert.Equal(t, 70.0, data.Slices[0].Value)
	assert.Equal(t, 30.0, data.Slices[1].Value)
	assert.False(t, data.Empty)

	// palette colors applied in label order
	assert.Equal(t, chart.DefaultColors[0], data.Slices[0].Color)
	assert.Equal(t, chart.DefaultColors[1], data.Slices[1].Color)
}

func TestNormalize_PieAllZerosIsEmpty(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeDoughnut,
		Labels:    []string{"A", "B"},
		Datasets: domain.DatasetList{
			{Name: "Valores", Values: []json.RawMessage{raw(0), raw(0)}},
		},
	}

	data := chart.Normalize(ind)
	assert.True(t, data.Empty)
}

func TestNormalize_PieNoDatasets(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypePie,
		Labels:    []string{"A"},
	}

	data := chart.Normalize(ind)
	assert.True(t, data.Empty)
	assert.Empty(t, data.Slices)
}

func TestNormalize_UnknownTypeIsUnsupported(t *testing.T) {
	ind := &domain.Indicator{ChartType: domain.ChartType("radar")}

	data := chart.Normalize(ind)
	assert.True(t, data.Unsupported)
	assert.Contains(t, data.Message, "radar")
}

func TestNormalize_DatasetColorFallback(t *testing.T) {
	ind := &domain.Indicator{
		ChartType: domain.ChartTypeBar,
		Labels:    []string{"Jan"},
		Datasets: domain.DatasetList{
			{Name: "Com cor", Values: []json.RawMessage{raw(1)}, Color: "#123456"},
			{Name: "Sem cor", Values: []json.RawMessage{raw(2)}},
		},
	}

	data := chart.Normalize(ind)
	require.Len(t, data.Series, 2)
	assert.Equal(t, "#123456", data.Series[0].Color)
	assert.Equal(t, chart.DefaultColors[1], data.Series[1].Color)
}
