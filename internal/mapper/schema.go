package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/exxata/connect-api/internal/domain"
)

// projectColumns is the single source of truth for translating the
// client-side camelCase project fields to database columns. Every
// patch goes through this table; the translation exists nowhere else.
var projectColumns = map[string]string{
	"name":            "name",
	"client":          "client",
	"sector":          "sector",
	"location":        "location",
	"description":     "description",
	"phase":           "phase",
	"status":          "status",
	"contractValue":   "contract_value",
	"measuredValue":   "measured_value",
	"hourlyRate":      "hourly_rate",
	"disputedAmount":  "disputed_amount",
	"contractSummary": "contract_summary",
	"contractCode":    "contract_code",

	"startDate":             "start_date",
	"endDate":               "end_date",
	"executionStartDate":    "execution_start_date",
	"executionEndDate":      "execution_end_date",
	"contractSignatureDate": "contract_signature_date",
	"osSignatureDate":       "os_signature_date",
	"reportCutoffDate":      "report_cutoff_date",

	"progress":                   "progress",
	"billingProgress":            "billing_progress",
	"billingProgressContracted":  "billing_progress_contracted",
	"physicalProgress":           "physical_progress",
	"physicalProgressContracted": "physical_progress_contracted",

	"overviewConfig": "overview_config",
}

// progressFields are the patch keys clamped to [0,100] on every write
var progressFields = map[string]bool{
	"progress":                   true,
	"billingProgress":            true,
	"billingProgressContracted":  true,
	"physicalProgress":           true,
	"physicalProgressContracted": true,
}

// currencyFields are the monetary patch keys, coerced to float64 so a
// string amount becomes a 400 instead of a failed numeric-column write
var currencyFields = map[string]bool{
	"contractValue":  true,
	"measuredValue":  true,
	"hourlyRate":     true,
	"disputedAmount": true,
}

// dateFields are the patch keys whose values are ISO 8601 date strings
var dateFields = map[string]bool{
	"startDate":             true,
	"endDate":               true,
	"executionStartDate":    true,
	"executionEndDate":      true,
	"contractSignatureDate": true,
	"osSignatureDate":       true,
	"reportCutoffDate":      true,
}

// ProjectPatchColumns lists the patchable camelCase field names, sorted
func ProjectPatchColumns() []string {
	keys := make([]string, 0, len(projectColumns))
	for k := range projectColumns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TranslateProjectPatch converts a camelCase patch into a column map
// ready for a gorm Updates call. Unknown keys reject the whole patch:
// a silently dropped field is how overview data used to get lost.
// Progress values are clamped, date strings parsed, nil dates allowed.
func TranslateProjectPatch(patch domain.ProjectPatch) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		column, ok := projectColumns[key]
		if !ok {
			return nil, fmt.Errorf("unknown project field %q", key)
		}

		switch {
		case progressFields[key]:
			num, err := toFloat(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			out[column] = clampProgress(num)
		case currencyFields[key]:
			num, err := toFloat(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			out[column] = num
		case dateFields[key]:
			t, err := toDate(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			out[column] = t
		case key == "overviewConfig":
			cfg, err := toOverviewConfig(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			out[column] = cfg
		default:
			out[column] = value
		}
	}
	return out, nil
}

func clampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(v, ",", "."), "%f", &f); err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}

func toDate(value interface{}) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("not a date: %q", v)
	default:
		return nil, fmt.Errorf("not a date: %v", value)
	}
}

func toOverviewConfig(value interface{}) (domain.OverviewConfig, error) {
	switch v := value.(type) {
	case domain.OverviewConfig:
		return v, nil
	case map[string]interface{}:
		var cfg domain.OverviewConfig
		if raw, ok := v["widgets"].([]interface{}); ok {
			for _, entry := range raw {
				m, ok := entry.(map[string]interface{})
				if !ok {
					return cfg, fmt.Errorf("malformed widget entry")
				}
				w := domain.OverviewWidget{Size: domain.WidgetSizeNormal}
				if id, ok := m["id"].(string); ok {
					w.ID = id
				}
				if typ, ok := m["type"].(string); ok {
					w.Type = typ
				}
				if size, ok := m["size"].(string); ok && size == string(domain.WidgetSizeLarge) {
					w.Size = domain.WidgetSizeLarge
				}
				if w.Type == "" {
					return cfg, fmt.Errorf("widget entry without type")
				}
				cfg.Widgets = append(cfg.Widgets, w)
			}
		}
		return cfg, nil
	default:
		return domain.OverviewConfig{}, fmt.Errorf("malformed overview config")
	}
}
