// Package excel handles the spreadsheet round-trips of the platform:
// the overview card export/import and the indicator data import. All
// workbook mechanics go through excelize; the field semantics live in
// the services that call this package.
package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sizeOneColumn  = "1 coluna"
	sizeTwoColumns = "2 colunas"
)

// OverviewMeta is the header block of an overview export
type OverviewMeta struct {
	ProjectName string
	ProjectID   string
	ExportedAt  time.Time
}

// OverviewRow is one card row of the overview sheet: the card label,
// its formatted value and the grid size marker
type OverviewRow struct {
	Label string
	Value string
	Large bool
}

// OverviewStat is one row of the trailing statistics block
type OverviewStat struct {
	Label string
	Value string
}

// BuildOverviewWorkbook serializes the overview cards into a workbook:
// metadata block, one row per card, then the statistics block.
func BuildOverviewWorkbook(meta OverviewMeta, rows []OverviewRow, stats []OverviewStat) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Visão Geral"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	line := 1
	write := func(cells ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
		line++
		return nil
	}

	if err := write("Projeto", meta.ProjectName); err != nil {
		return nil, err
	}
	if err := write("ID", meta.ProjectID); err != nil {
		return nil, err
	}
	if err := write("Exportado em", meta.ExportedAt.Format("02/01/2006 15:04")); err != nil {
		return nil, err
	}
	if err := write(); err != nil {
		return nil, err
	}
	if err := write("Campo", "Valor", "Tamanho"); err != nil {
		return nil, err
	}

	for _, row := range rows {
		size := sizeOneColumn
		if row.Large {
			size = sizeTwoColumns
		}
		if err := write(row.Label, row.Value, size); err != nil {
			return nil, err
		}
	}

	if len(stats) > 0 {
		if err := write(); err != nil {
			return nil, err
		}
		if err := write("Estatísticas"); err != nil {
			return nil, err
		}
		for _, stat := range stats {
			if err := write(stat.Label, stat.Value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
		return nil, err
	}

	return f, nil
}

// ParseOverviewWorkbook reads the first worksheet back into card rows.
// Header and metadata lines come back too; the caller filters by label.
func ParseOverviewWorkbook(r io.Reader) ([]OverviewRow, error) {
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

	out := make([]OverviewRow, 0, len(rows))
	for _, cells := range rows {
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		row := OverviewRow{Label: strings.TrimSpace(cells[0])}
		if len(cells) > 1 {
			row.Value = strings.TrimSpace(cells[1])
		}
		if len(cells) > 2 {
			row.Large = strings.EqualFold(strings.TrimSpace(cells[2]), sizeTwoColumns)
		}
		out = append(out, row)
	}
	return out, nil
}
