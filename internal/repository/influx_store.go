package repository

import (
	"context"
	"fmt"
	"time"

	"energia_assistant/internal/config"
	"energia_assistant/internal/domain"

	influxdb3 "github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"
)

const influxMeasurement = "collector_records"

// InfluxStore implements Store on InfluxDB v3, one point per record
type InfluxStore struct {
	db *config.InfluxDatabase
}

// NewInfluxStore creates a new InfluxDB store
func NewInfluxStore(db *config.InfluxDatabase) *InfluxStore {
	return &InfluxStore{db: db}
}

func (r *InfluxStore) Add(ctx context.Context, rec domain.ReceivedRecord) error {
	if r.db == nil || r.db.Client == nil {
		return fmt.Errorf("InfluxDB client is nil - database not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.db.Client.WritePoints(ctx, []*influxdb3.Point{recordToPoint(rec)}); err != nil {
		return fmt.Errorf("WritePoints failed: %w (db: %s)", err, r.db.Database)
	}
	return nil
}

// recordToPoint maps identifiers to tags and measurements to fields
func recordToPoint(rec domain.ReceivedRecord) *influxdb3.Point {
	tags := map[string]string{
		"inverter_sn": rec.InverterSN,
	}
	if rec.PlantID != "" {
		tags["plant_id"] = rec.PlantID
	}

	fields := map[string]interface{}{
		"id":            rec.ID,
		"energia_total": rec.EnergiaTotal,
	}
	if rec.RequestID != "" {
		fields["request_id"] = rec.RequestID
	}
	if rec.SourceIP != "" {
		fields["source_ip"] = rec.SourceIP
	}
	if rec.Date != "" {
		fields["date"] = rec.Date
	}
	if rec.SocIni != nil {
		fields["soc_ini"] = int64(*rec.SocIni)
	}
	if rec.SocFim != nil {
		fields["soc_fim"] = int64(*rec.SocFim)
	}
	if rec.PicoPotencia != nil {
		fields["pico_potencia"] = *rec.PicoPotencia
	}

	return influxdb3.NewPoint(influxMeasurement, tags, fields, rec.ReceivedAt)
}

func (r *InfluxStore) List(ctx context.Context, limit int) ([]domain.ReceivedRecord, error) {
	if r.db == nil || r.db.Client == nil {
		return nil, fmt.Errorf("InfluxDB client is nil - database not initialized")
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY time DESC", influxMeasurement)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	iterator, err := r.db.Client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w (query: %s)", err, query)
	}

	var results []domain.ReceivedRecord
	for iterator.Next() {
		results = append(results, pointToRecord(iterator.Value()))
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func pointToRecord(value map[string]interface{}) domain.ReceivedRecord {
	rec := domain.ReceivedRecord{
		ID:        getStringValue(value, "id"),
		RequestID: getStringValue(value, "request_id"),
		SourceIP:  getStringValue(value, "source_ip"),
	}
	if ts, ok := value["time"].(time.Time); ok {
		rec.ReceivedAt = ts
	}
	rec.InverterSN = getStringValue(value, "inverter_sn")
	rec.PlantID = getStringValue(value, "plant_id")
	rec.Date = getStringValue(value, "date")
	rec.EnergiaTotal = getFloatValue(value, "energia_total")

	if _, ok := value["soc_ini"]; ok {
		v := getIntValue(value, "soc_ini")
		rec.SocIni = &v
	}
	if _, ok := value["soc_fim"]; ok {
		v := getIntValue(value, "soc_fim")
		rec.SocFim = &v
	}
	if _, ok := value["pico_potencia"]; ok {
		v := getFloatValue(value, "pico_potencia")
		rec.PicoPotencia = &v
	}
	return rec
}

func (r *InfluxStore) Count(ctx context.Context) (int64, error) {
	if r.db == nil || r.db.Client == nil {
		return 0, fmt.Errorf("InfluxDB client is nil - database not initialized")
	}

	iterator, err := r.db.Client.Query(ctx, fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", influxMeasurement))
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}

	if iterator.Next() {
		value := iterator.Value()
		switch count := value["count"].(type) {
		case int64:
			return count, nil
		case uint64:
			return int64(count), nil
		case float64:
			return int64(count), nil
		case int:
			return int64(count), nil
		}
	}
	return 0, nil
}

func (r *InfluxStore) Type() string {
	return "influx"
}

// Helper functions with better type handling
func getStringValue(data map[string]interface{}, key string) string {
	if val, ok := data[key].(string); ok {
		return val
	}
	return ""
}

func getIntValue(data map[string]interface{}, key string) int {
	switch val := data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return 0
	}
}

func getFloatValue(data map[string]interface{}, key string) float64 {
	switch val := data[key].(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	default:
		return 0.0
	}
}
