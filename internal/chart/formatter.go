package chart

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/exxata/connect-api/internal/domain"
)

var (
	ptBR = message.NewPrinter(language.BrazilianPortuguese)
	enUS = message.NewPrinter(language.AmericanEnglish)
)

// FormatValue renders a numeric value the way the web client always
// has: pt-BR separators, "R$" for BRL, "US$" for dollar amounts and a
// one-decimal percentage. With compact enabled the K/M/B suffix is
// chosen automatically by magnitude.
func FormatValue(value float64, format domain.ValueFormat, compact bool) string {
	switch format {
	case domain.ValueFormatPercentage:
		return ptBR.Sprintf("%.1f", value) + "%"
	case domain.ValueFormatCurrency:
		if compact {
			return compactValue(ptBR, value, "R$ ")
		}
		return "R$ " + ptBR.Sprintf("%.2f", value)
	case domain.ValueFormatCurrencyUSD:
		if compact {
			return compactValue(enUS, value, "US$ ")
		}
		return "US$ " + enUS.Sprintf("%.2f", value)
	default:
		if compact {
			return compactValue(ptBR, value, "")
		}
		if value == math.Trunc(value) {
			return ptBR.Sprintf("%d", int64(value))
		}
		return ptBR.Sprintf("%.2f", value)
	}
}

// AutoCompact reports whether a value should render in K/M/B notation:
// either the chart asked for it, or the magnitude reached seven digits
// and the full form stops fitting a card or table cell.
func AutoCompact(value float64, requested bool) bool {
	return requested || math.Abs(value) >= 1_000_000
}

func compactValue(p *message.Printer, v float64, prefix string) string {
	if v == 0 {
		return prefix + p.Sprintf("%.2f", 0.0)
	}

	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1_000_000_000:
		return sign + prefix + p.Sprintf("%.1f", abs/1_000_000_000) + "B"
	case abs >= 1_000_000:
		return sign + prefix + p.Sprintf("%.1f", abs/1_000_000) + "M"
	case abs >= 1_000:
		return sign + prefix + p.Sprintf("%.1f", abs/1_000) + "K"
	default:
		return sign + prefix + p.Sprintf("%.2f", abs)
	}
}
