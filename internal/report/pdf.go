// Package report renders the batched PDF export of a project's
// indicator cards. Charts come out as data tables rather than plotted
// images; the layout pages automatically when a card overflows.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
)

const (
	pageMargin   = 15.0
	lineHeight   = 6.0
	bottomLimit  = 275.0
	exxataRed    = 0xd5
	exxataRedG   = 0x1d
	exxataRedB   = 0x07
	tableRowBand = 245
)

// IndicatorCard bundles one indicator with its normalized chart data
type IndicatorCard struct {
	Indicator *domain.Indicator
	Data      *chart.Data
}

// RenderIndicators produces the PDF for a project's indicator board
func RenderIndicators(projectName string, cards []IndicatorCard) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header: title, project, timestamp
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(exxataRed, exxataRedG, exxataRedB)
	pdf.CellFormat(0, 10, tr("Indicadores do Projeto"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, tr(projectName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, tr("Gerado em "+time.Now().Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, card := range cards {
		renderCard(pdf, tr, card)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCard(pdf *fpdf.Fpdf, tr func(string) string, card IndicatorCard) {
	// Start the card on a fresh page when the title would land too low
	if pdf.GetY() > bottomLimit-40 {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0x09, 0x18, 0x2b)
	pdf.CellFormat(0, 8, tr(card.Indicator.Title), "", 1, "L", false, 0, "")

	if card.Data.Unsupported {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, lineHeight, tr(card.Data.Message), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	if card.Data.Empty {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, lineHeight, tr("Sem dados"), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	format := card.Indicator.Options.ValueFormat
	if format == "" {
		format = domain.ValueFormatNumber
	}

	compact := card.Indicator.Options.Compact

	if len(card.Data.Slices) > 0 {
		renderSliceTable(pdf, tr, card.Data, format, compact)
	} else {
		renderRowTable(pdf, tr, card.Data, format, compact)
	}

	if card.Indicator.Observation != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, tr("Obs.: "+card.Indicator.Observation), "", "L", false)
	}
	pdf.Ln(5)
}

func renderSliceTable(pdf *fpdf.Fpdf, tr func(string) string, data *chart.Data, format domain.ValueFormat, compact bool) {
	pdf.SetFont("Helvetica", "", 9)
	for i, slice := range data.Slices {
		fill := i%2 == 1
		pdf.SetFillColor(tableRowBand, tableRowBand, tableRowBand)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(90, lineHeight, tr(slice.Name), "B", 0, "L", fill, 0, "")
		pdf.CellFormat(60, lineHeight, tr(chart.FormatValue(slice.Value, format, chart.AutoCompact(slice.Value, compact))), "B", 1, "R", fill, 0, "")
	}
}

func renderRowTable(pdf *fpdf.Fpdf, tr func(string) string, data *chart.Data, format domain.ValueFormat, compact bool) {
	if len(data.Series) == 0 {
		return
	}

	usable := 210.0 - 2*pageMargin
	labelWidth := 50.0
	colWidth := (usable - labelWidth) / float64(len(data.Series))

	// Header row with series names
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(0x09, 0x18, 0x2b)
	pdf.CellFormat(labelWidth, lineHeight, "", "", 0, "L", true, 0, "")
	for _, series := range data.Series {
		pdf.CellFormat(colWidth, lineHeight, tr(series.Name), "", 0, "C", true, 0, "")
	}
	pdf.Ln(lineHeight)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	for i, row := range data.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(tableRowBand, tableRowBand, tableRowBand)
		pdf.CellFormat(labelWidth, lineHeight, tr(row.Name), "B", 0, "L", fill, 0, "")
		for _, series := range data.Series {
			cell := "—"
			if v, ok := row.Values[series.Name]; ok && v != nil {
				valueFormat := format
				if series.ValueFormat != "" {
					valueFormat = series.ValueFormat
				}
				cell = chart.FormatValue(*v, valueFormat, chart.AutoCompact(*v, compact))
			}
			pdf.CellFormat(colWidth, lineHeight, tr(cell), "B", 0, "R", fill, 0, "")
		}
		pdf.Ln(lineHeight)
	}
}
