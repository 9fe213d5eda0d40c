package excel

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber converts a spreadsheet cell into a float64, accepting
// plain machine numbers, pt-BR formatted values ("1.500.000,00") and
// currency strings ("R$ 1.500.000,00").
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "US$")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}

	// pt-BR: dot is the thousands separator, comma the decimal mark.
	// Dollar exports flip the two; the last separator tells them apart.
	if strings.Contains(s, ",") {
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
				return v, nil
			}
		}
		normalized := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		if v, err := strconv.ParseFloat(normalized, 64); err == nil {
			return v, nil
		}
	}

	// "1.500" without a comma is a thousands-grouped integer, not 1.5
	if strings.Contains(s, ".") && !strings.Contains(s, ",") {
		parts := strings.Split(s, ".")
		grouped := len(parts) > 1
		for _, p := range parts[1:] {
			if len(p) != 3 {
				grouped = false
				break
			}
		}
		if grouped {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ".", ""), 64); err == nil {
				return v, nil
			}
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	return 0, fmt.Errorf("not a number: %q", raw)
}

// CoercePercent maps both fraction and percentage notation onto the
// 0-100 scale: 0.4 and 40 both read as 40.
func CoercePercent(v float64) float64 {
	if v > -1 && v < 1 && v != 0 {
		return v * 100
	}
	if v == 1 {
		return 100
	}
	return v
}
