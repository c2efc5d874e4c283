package domain

import (
	"encoding/json"
	"time"
)

// Metadata carries the payload-level fields that do not vary per sample.
// Absent fields stay nil; Units defaults to an empty map.
type Metadata struct {
	PlantID    *string           `json:"plant_id"`
	InverterSN *string           `json:"inverter_sn"`
	Date       *string           `json:"date"`
	Timezone   *string           `json:"timezone"`
	Units      map[string]string `json:"units"`
}

// Sample is one telemetry row. Every field is optional and independently absent.
type Sample struct {
	Time      *time.Time             `json:"time,omitempty"`
	Pac       *float64               `json:"Pac,omitempty"`
	Eday      *float64               `json:"Eday,omitempty"`
	Cbattery1 *float64               `json:"Cbattery1,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Series is the normalized day of samples. Row order is the payload order.
// Columns lists every key seen on any row, in first-seen order.
// Meta is nil when the source could not be read.
type Series struct {
	Rows    []Sample  `json:"rows"`
	Columns []string  `json:"columns"`
	Meta    *Metadata `json:"meta"`
}

// Empty reports whether the series has no rows or no row carries any column
func (s Series) Empty() bool {
	return len(s.Rows) == 0 || len(s.Columns) == 0
}

// InverterSN returns the inverter identifier or "" when absent
func (s Series) InverterSN() string {
	if s.Meta == nil || s.Meta.InverterSN == nil {
		return ""
	}
	return *s.Meta.InverterSN
}

// DailySummary holds the daily KPIs. A summary with Valid=false is empty
// and serializes as {}.
type DailySummary struct {
	EnergiaDia   float64 `json:"energia_dia"`
	SocIni       int     `json:"soc_ini"`
	SocFim       int     `json:"soc_fim"`
	PicoPotencia float64 `json:"pico_potencia"`
	Equipamento  *string `json:"equipamento,omitempty"`
	Valid        bool    `json:"-"`
}

// MarshalJSON renders an empty summary as {}
func (d DailySummary) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("{}"), nil
	}
	type plain DailySummary
	return json.Marshal(plain(d))
}

// CollectorRecord is the reduced record transmitted to the remote collector
type CollectorRecord struct {
	EnergiaTotal float64  `json:"energia_total" bson:"energia_total"`
	InverterSN   string   `json:"inverter_sn" bson:"inverter_sn"`
	PlantID      string   `json:"plant_id,omitempty" bson:"plant_id,omitempty"`
	Date         string   `json:"date,omitempty" bson:"date,omitempty"`
	SocIni       *int     `json:"soc_ini,omitempty" bson:"soc_ini,omitempty"`
	SocFim       *int     `json:"soc_fim,omitempty" bson:"soc_fim,omitempty"`
	PicoPotencia *float64 `json:"pico_potencia,omitempty" bson:"pico_potencia,omitempty"`
}

// CollectorAck is the collector's acknowledgment body
type CollectorAck struct {
	Status       string  `json:"status"`
	Mensagem     string  `json:"mensagem"`
	InverterSN   string  `json:"inverter_sn"`
	EnergiaTotal float64 `json:"energia_total"`
}

// ReceivedRecord is a CollectorRecord accepted by the collector service
type ReceivedRecord struct {
	ID              string    `json:"id" bson:"_id"`
	RequestID       string    `json:"request_id,omitempty" bson:"request_id,omitempty"`
	SourceIP        string    `json:"source_ip,omitempty" bson:"source_ip,omitempty"`
	ReceivedAt      time.Time `json:"received_at" bson:"received_at"`
	CollectorRecord `bson:",inline"`
}

// KPI is one display card of the dashboard
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
