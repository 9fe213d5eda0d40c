package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// IndicatorSheet is the parsed form of an uploaded indicator
// spreadsheet: one label per data column, one series per data row
type IndicatorSheet struct {
	Labels []string
	Series []IndicatorSeries
}

// IndicatorSeries is one parsed data row
type IndicatorSeries struct {
	Name   string
	Values []*float64
}

// ParseIndicatorWorkbook reads the first worksheet as an indicator
// grid: the first row holds the labels, the first column the series
// names, everything else is numeric data. Unparseable cells read as
// null so the chart layer can decide between gap and zero.
func ParseIndicatorWorkbook(r io.Reader) (*IndicatorSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	start := headerRow(rows)
	if start < 0 {
		return nil, fmt.Errorf("no header row found")
	}

	header := rows[start]
	sheet := &IndicatorSheet{}
	for _, cell := range header[1:] {
		label := strings.TrimSpace(cell)
		if label == "" {
			break
		}
		sheet.Labels = append(sheet.Labels, label)
	}
	if len(sheet.Labels) == 0 {
		return nil, fmt.Errorf("header row has no labels")
	}

	for _, cells := range rows[start+1:] {
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		series := IndicatorSeries{
			Name:   strings.TrimSpace(cells[0]),
			Values: make([]*float64, len(sheet.Labels)),
		}
		for i := range sheet.Labels {
			col := i + 1
			if col >= len(cells) {
				break
			}
			if v, err := ParseNumber(cells[col]); err == nil {
				value := v
				series.Values[i] = &value
			}
		}
		sheet.Series = append(sheet.Series, series)
	}

	if len(sheet.Series) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return sheet, nil
}

// headerRow finds the first row that looks like a label header: a
// non-empty leading cell followed by at least one more non-empty cell
func headerRow(rows [][]string) int {
	for i, cells := range rows {
		if len(cells) < 2 {
			continue
		}
		if strings.TrimSpace(cells[0]) != "" && strings.TrimSpace(cells[1]) != "" {
			return i
		}
	}
	return -1
}

// BuildIndicatorTemplate produces the example workbook offered for
// download next to the import button
func BuildIndicatorTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Indicador"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Série", "Jan", "Fev", "Mar", "Abr"},
		{"Previsto", 100, 200, 300, 400},
		{"Realizado", 90, 210, 280, 410},
	}
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, err
	}
	return f, nil
}
