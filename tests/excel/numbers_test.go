package excel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exxata/connect-api/internal/excel"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"42", 42},
		{"42.5", 42.5},
		{"-17", -17},
		{"1.500.000,00", 1500000},
		{"1.500", 1500},
		{"1.500.000", 1500000},
		{"250,5", 250.5},
		{"0,75", 0.75},
		{"R$ 1.500.000,00", 1500000},
		{"R$1000", 1000},
		{"US$ 2,500.00", 2500},
		{"45%", 45},
		{"12,5%", 12.5},
		{"  99  ", 99},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := excel.ParseNumber(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "R$", "12a", "--5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := excel.ParseNumber(raw)
			assert.Error(t, err)
		})
	}
}

func TestCoercePercent(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"fraction scales up", 0.4, 40},
		{"small fraction", 0.075, 7.5},
		{"exactly one reads as full", 1, 100},
		{"already a percentage", 40, 40},
		{"zero stays zero", 0, 0},
		{"negative fraction", -0.25, -25},
		{"over one hundred untouched", 130, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, excel.CoercePercent(tt.value))
		})
	}
}
