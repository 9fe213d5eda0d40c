package excel_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/exxata/connect-api/internal/excel"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
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

func TestParseIndicatorWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Série", "Jan", "Fev", "Mar"},
		{"Previsto", "1.500,00", 200, "x"},
		{"Realizado", 90, nil, 310},
	})

	sheet, err := excel.ParseIndicatorWorkbook(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jan", "Fev", "Mar"}, sheet.Labels)
	require.Len(t, sheet.Series, 2)

	previsto := sheet.Series[0]
	assert.Equal(t, "Previsto", previsto.Name)
	assert.Equal(t, 1500.0, *previsto.Values[0])
	assert.Equal(t, 200.0, *previsto.Values[1])
	// unparseable cells read as null, not zero
	assert.Nil(t, previsto.Values[2])

	realizado := sheet.Series[1]
	assert.Equal(t, 90.0, *realizado.Values[0])
	assert.Nil(t, realizado.Values[1])
	assert.Equal(t, 310.0, *realizado.Values[2])
}

func TestParseIndicatorWorkbook_SkipsPreamble(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Relatório de medições"},
		{},
		{"Série", "Q1", "Q2"},
		{"Faturamento", 10, 20},
	})

	sheet, err := excel.ParseIndicatorWorkbook(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, sheet.Labels)
	require.Len(t, sheet.Series, 1)
	assert.Equal(t, "Faturamento", sheet.Series[0].Name)
}

func TestParseIndicatorWorkbook_NoData(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Série", "Jan"},
	})

	_, err := excel.ParseIndicatorWorkbook(buf)
	assert.Error(t, err)
}

func TestParseIndicatorWorkbook_NoHeader(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"só uma coluna"},
		{},
	})

	_, err := excel.ParseIndicatorWorkbook(buf)
	assert.Error(t, err)
}

func TestBuildIndicatorTemplate_ParsesBack(t *testing.T) {
	f, err := excel.BuildIndicatorTemplate()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := excel.ParseIndicatorWorkbook(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jan", "Fev", "Mar", "Abr"}, sheet.Labels)
	require.Len(t, sheet.Series, 2)
	assert.Equal(t, "Previsto", sheet.Series[0].Name)
	assert.Equal(t, 400.0, *sheet.Series[0].Values[3])
}
