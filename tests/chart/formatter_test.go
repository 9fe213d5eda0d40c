package chart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
)

func TestFormatValue_Currency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"millions", 1500000, "R$ 1.500.000,00"},
		{"thousands", 12345.6, "R$ 12.345,60"},
		{"small", 42, "R$ 42,00"},
		{"zero", 0, "R$ 0,00"},
		{"negative", -1234.56, "R$ -1.234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chart.FormatValue(tt.value, domain.ValueFormatCurrency, false))
		})
	}
}

func TestFormatValue_CurrencyCompact(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"billions", 2_500_000_000, "R$ 2,5B"},
		{"millions", 1_500_000, "R$ 1,5M"},
		{"thousands", 12_300, "R$ 12,3K"},
		{"below a thousand stays full", 999, "R$ 999,00"},
		{"zero", 0, "R$ 0,00"},
		{"negative millions", -1_500_000, "-R$ 1,5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chart.FormatValue(tt.value, domain.ValueFormatCurrency, true))
		})
	}
}

func TestFormatValue_CurrencyUSD(t *testing.T) {
	// Dollar amounts keep US separators
	assert.Equal(t, "US$ 1,500,000.00", chart.FormatValue(1500000, domain.ValueFormatCurrencyUSD, false))
	assert.Equal(t, "US$ 1.5M", chart.FormatValue(1500000, domain.ValueFormatCurrencyUSD, true))
}

func TestFormatValue_Percentage(t *testing.T) {
	assert.Equal(t, "42,0%", chart.FormatValue(42, domain.ValueFormatPercentage, false))
	assert.Equal(t, "7,5%", chart.FormatValue(7.5, domain.ValueFormatPercentage, false))
	assert.Equal(t, "0,0%", chart.FormatValue(0, domain.ValueFormatPercentage, false))
	assert.Equal(t, "100,0%", chart.FormatValue(100, domain.ValueFormatPercentage, false))
}

func TestAutoCompact(t *testing.T) {
	// an explicit request always compacts
	assert.True(t, chart.AutoCompact(42, true))
	assert.True(t, chart.AutoCompact(0, true))

	// without one, seven digits is the cutoff
	assert.True(t, chart.AutoCompact(1_000_000, false))
	assert.True(t, chart.AutoCompact(-2_500_000, false))
	assert.False(t, chart.AutoCompact(999_999.99, false))
	assert.False(t, chart.AutoCompact(0, false))

	assert.Equal(t, "R$ 1,5M",
		chart.FormatValue(1_500_000, domain.ValueFormatCurrency, chart.AutoCompact(1_500_000, false)))
	assert.Equal(t, "R$ 999.999,00",
		chart.FormatValue(999_999, domain.ValueFormatCurrency, chart.AutoCompact(999_999, false)))
}

func TestFormatValue_Number(t *testing.T) {
	assert.Equal(t, "1.234", chart.FormatValue(1234, domain.ValueFormatNumber, false))
	assert.Equal(t, "1.234,57", chart.FormatValue(1234.567, domain.ValueFormatNumber, false))
	assert.Equal(t, "1,2M", chart.FormatValue(1_200_000, domain.ValueFormatNumber, true))
}
