// Package chart turns the loosely-typed indicator data accumulated
// over years of spreadsheet imports into render-ready structures. The
// stored datasets mix numbers, numeric strings and nulls; everything
// the client renders goes through Normalize first.
package chart

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/exxata/connect-api/internal/domain"
)

// DefaultColors is the palette applied to datasets without an explicit
// color, in dataset order
var DefaultColors = []string{
	"#d51d07", "#09182b", "#0ea5e9", "#f59e0b", "#10b981", "#6366f1",
}

// Row is one X-axis entry with the coerced value of each dataset.
// A nil value means a gap, which only line and combo charts keep.
type Row struct {
	Name   string              `json:"name"`
	Values map[string]*float64 `json:"values"`
}

// Series describes how one dataset is drawn
type Series struct {
	Name        string             `json:"name"`
	Color       string             `json:"color"`
	Kind        domain.ChartType   `json:"kind,omitempty"`
	AxisID      string             `json:"axisId,omitempty"`
	ValueFormat domain.ValueFormat `json:"valueFormat,omitempty"`
}

// PieSlice is one {name, value} pair of a pie or doughnut chart
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Data is the normalized, render-ready form of an indicator
type Data struct {
	Type        domain.ChartType `json:"type"`
	Rows        []Row            `json:"rows,omitempty"`
	Series      []Series         `json:"series,omitempty"`
	Slices      []PieSlice       `json:"slices,omitempty"`
	Empty       bool             `json:"empty"`
	Unsupported bool             `json:"unsupported,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// Normalize shapes an indicator's labels and datasets for rendering.
//
// Bar charts coerce missing and unparseable values to zero so every
// label gets a bar. Line and combo charts keep gaps as nil and drop
// the trailing run of rows where no dataset has a meaningful value,
// so half-filled yearly templates don't flatline to December. Pie and
// doughnut charts read the first dataset only.
func Normalize(ind *domain.Indicator) Data {
	switch ind.ChartType {
	case domain.ChartTypeBar, domain.ChartTypeBarHorizontal:
		return normalizeCartesian(ind, false)
	case domain.ChartTypeLine, domain.ChartTypeCombo:
		return normalizeCartesian(ind, true)
	case domain.ChartTypePie, domain.ChartTypeDoughnut:
		return normalizePie(ind)
	default:
		return Data{
			Type:        ind.ChartType,
			Unsupported: true,
			Message:     "Tipo de gráfico não suportado: " + string(ind.ChartType),
		}
	}
}

func normalizeCartesian(ind *domain.Indicator, keepGaps bool) Data {
	parsed := make([][]*float64, len(ind.Datasets))
	for i, ds := range ind.Datasets {
		parsed[i] = make([]*float64, len(ind.Labels))
		for j := range ind.Labels {
			if j < len(ds.Values) {
				parsed[i][j] = parseValue(ds.Values[j])
			}
		}
	}

	rowCount := len(ind.Labels)
	if keepGaps {
		// last index where any dataset holds a non-null, non-zero value
		last := -1
		for j := 0; j < len(ind.Labels); j++ {
			for i := range parsed {
				if v := parsed[i][j]; v != nil && *v != 0 {
					last = j
					break
				}
			}
		}
		rowCount = last + 1
	}

	rows := make([]Row, 0, rowCount)
	for j := 0; j < rowCount; j++ {
		row := Row{Name: ind.Labels[j], Values: make(map[string]*float64, len(ind.Datasets))}
		for i, ds := range ind.Datasets {
			v := parsed[i][j]
			if v == nil && !keepGaps {
				zero := 0.0
				v = &zero
			}
			row.Values[ds.Name] = v
		}
		rows = append(rows, row)
	}

	series := make([]Series, 0, len(ind.Datasets))
	for i, ds := range ind.Datasets {
		s := Series{
			Name:        ds.Name,
			Color:       datasetColor(ds, i),
			ValueFormat: ds.ValueFormat,
		}
		if ind.ChartType == domain.ChartTypeCombo {
			s.Kind = ds.ChartType
			if s.Kind != domain.ChartTypeBar && s.Kind != domain.ChartTypeLine {
				s.Kind = domain.ChartTypeBar
			}
			s.AxisID = ds.YAxisID
			if s.AxisID != "right" {
				s.AxisID = "left"
			}
		}
		series = append(series, s)
	}

	return Data{
		Type:   ind.ChartType,
		Rows:   rows,
		Series: series,
		Empty:  len(rows) == 0 || len(series) == 0,
	}
}

func normalizePie(ind *domain.Indicator) Data {
	if len(ind.Datasets) == 0 {
		return Data{Type: ind.ChartType, Empty: true}
	}

	first := ind.Datasets[0]
	slices := make([]PieSlice, 0, len(ind.Labels))
	total := 0.0
	for j, label := range ind.Labels {
		value := 0.0
		if j < len(first.Values) {
			if v := parseValue(first.Values[j]); v != nil {
				value = *v
			}
		}
		total += value
		slices = append(slices, PieSlice{
			Name:  label,
			Value: value,
			Color: DefaultColors[j%len(DefaultColors)],
		})
	}

	return Data{
		Type:   ind.ChartType,
		Slices: slices,
		Empty:  len(slices) == 0 || total == 0,
	}
}

func datasetColor(ds domain.Dataset, index int) string {
	if ds.Color != "" {
		return ds.Color
	}
	return DefaultColors[index%len(DefaultColors)]
}

// parseValue coerces one stored scalar to a float, or nil when it
// holds nothing usable
func parseValue(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(str, 64); err == nil {
		return &v
	}
	// legacy rows store decimals with a comma
	if v, err := strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(str, ".", ""), ",", "."), 64); err == nil {
		return &v
	}
	return nil
}
