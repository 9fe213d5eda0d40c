package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WidgetSize represents the column span of an overview card
type WidgetSize string

const (
	WidgetSizeNormal WidgetSize = "normal"
	WidgetSizeLarge  WidgetSize = "large"
)

// OverviewWidget is one card instance on a project's overview grid
type OverviewWidget struct {
	ID   string     `json:"id"`
	Type string     `json:"type"`
	Size WidgetSize `json:"size"`
}

// OverviewConfig is the per-project overview grid configuration, stored
// as a jsonb column
type OverviewConfig struct {
	Widgets []OverviewWidget           `json:"widgets"`
	Layouts map[string]json.RawMessage `json:"layouts,omitempty"`
}

// Value implements driver.Valuer
func (c OverviewConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *OverviewConfig) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// Dataset is one series of an indicator chart. Values are kept as raw
// JSON scalars because legacy rows mix numbers, numeric strings and
// nulls; coercion happens in the chart normalizer, not here.
type Dataset struct {
	Name        string            `json:"name"`
	Values      []json.RawMessage `json:"values"`
	Color       string            `json:"color,omitempty"`
	YAxisID     string            `json:"yAxisID,omitempty"`
	ChartType   ChartType         `json:"chartType,omitempty"`
	ValueFormat ValueFormat       `json:"valueFormat,omitempty"`
}

// DatasetList is the jsonb-backed slice of datasets on an indicator
type DatasetList []Dataset

// Value implements driver.Valuer
func (d DatasetList) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]Dataset{})
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *DatasetList) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// AxisOptions configures one Y axis of a chart
type AxisOptions struct {
	Title string   `json:"title,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// ChartOptions holds presentation settings for an indicator chart
type ChartOptions struct {
	ValueFormat    ValueFormat  `json:"valueFormat,omitempty"`
	ShowDataLabels bool         `json:"showDataLabels,omitempty"`
	Compact        bool         `json:"compact,omitempty"`
	LeftAxis       *AxisOptions `json:"leftAxis,omitempty"`
	RightAxis      *AxisOptions `json:"rightAxis,omitempty"`
}

// Value implements driver.Valuer
func (o ChartOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner
func (o *ChartOptions) Scan(value interface{}) error {
	return scanJSON(value, o)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
