// Package formatter renders summary values as pt-BR display strings.
package formatter

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"energia_assistant/internal/domain"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Decimal formats x with two fraction digits, "." grouping and "," decimals
func Decimal(x float64) string {
	return printer.Sprint(number.Decimal(x, number.Scale(2)))
}

// KWh formats an energy value, e.g. "3,89 kWh"
func KWh(x float64) string {
	return Decimal(x) + " kWh"
}

// KW formats a power value, e.g. "2,22 kW"
func KW(x float64) string {
	return Decimal(x) + " kW"
}

// SOCRange formats the battery start and end charge, e.g. "64% → 68%"
func SOCRange(ini, fim int) string {
	return fmt.Sprintf("%d%% → %d%%", ini, fim)
}

// KPIs builds the four dashboard cards. An empty summary shows zeros.
func KPIs(s domain.DailySummary) []domain.KPI {
	equipamento := ""
	if s.Equipamento != nil {
		equipamento = *s.Equipamento
	}
	return []domain.KPI{
		{Label: "Energia do dia", Value: KWh(s.EnergiaDia)},
		{Label: "SOC inicial → final", Value: SOCRange(s.SocIni, s.SocFim)},
		{Label: "Pico de energia", Value: KW(s.PicoPotencia)},
		{Label: "Inversor", Value: equipamento},
	}
}
