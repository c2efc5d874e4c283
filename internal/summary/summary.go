// Package summary derives the daily KPIs from a normalized series.
package summary

import (
	"energia_assistant/internal/domain"
)

type options struct {
	equipment bool
}

// Option tunes Daily
type Option func(*options)

// WithEquipment adds the inverter identifier as equipamento
func WithEquipment() Option {
	return func(o *options) { o.equipment = true }
}

// Daily summarizes one day. Each KPI only looks at the non-missing values of
// its column and falls back to zero when there are none. An empty series
// gives an empty summary.
func Daily(series domain.Series, opts ...Option) domain.DailySummary {
	if series.Empty() {
		return domain.DailySummary{}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := domain.DailySummary{Valid: true}

	if v, ok := last(series.Rows, eday); ok {
		out.EnergiaDia = v
	}
	if v, ok := first(series.Rows, cbattery1); ok {
		out.SocIni = int(v)
	}
	if v, ok := last(series.Rows, cbattery1); ok {
		out.SocFim = int(v)
	}
	if v, ok := peak(series.Rows, pac); ok {
		out.PicoPotencia = v
	}

	if o.equipment {
		sn := series.InverterSN()
		out.Equipamento = &sn
	}
	return out
}

type column func(domain.Sample) *float64

func eday(s domain.Sample) *float64      { return s.Eday }
func pac(s domain.Sample) *float64       { return s.Pac }
func cbattery1(s domain.Sample) *float64 { return s.Cbattery1 }

func first(rows []domain.Sample, col column) (float64, bool) {
	for _, r := range rows {
		if v := col(r); v != nil {
			return *v, true
		}
	}
	return 0, false
}

func last(rows []domain.Sample, col column) (float64, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		if v := col(rows[i]); v != nil {
			return *v, true
		}
	}
	return 0, false
}

func peak(rows []domain.Sample, col column) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, r := range rows {
		v := col(r)
		if v == nil {
			continue
		}
		if !found || *v > best {
			best, found = *v, true
		}
	}
	return best, found
}
