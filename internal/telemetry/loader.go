// Package telemetry turns a raw daily inverter payload into a normalized series.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"energia_assistant/internal/domain"
)

// ErrSourceUnavailable marks a payload that is missing or unreadable.
// It is recoverable: the loader returns an empty series alongside it.
var ErrSourceUnavailable = errors.New("telemetry source unavailable")

// Column names of the sample fields with dedicated handling
const (
	FieldTime      = "time"
	FieldPac       = "Pac"
	FieldEday      = "Eday"
	FieldCbattery1 = "Cbattery1"
)

// Source supplies the raw payload of one day
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// Load reads the payload from src and normalizes it. Any failure to open or
// read the source yields an empty series and an error wrapping
// ErrSourceUnavailable.
func Load(ctx context.Context, src Source) (domain.Series, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return domain.Series{}, err
		}
		return domain.Series{}, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Name(), err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return domain.Series{}, fmt.Errorf("%w: %s: read: %v", ErrSourceUnavailable, src.Name(), err)
	}
	return Parse(raw)
}

// Parse normalizes an in-memory payload. It never fails on a well-formed but
// sparse document; only undecodable JSON is reported.
func Parse(raw []byte) (domain.Series, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return domain.Series{}, fmt.Errorf("%w: decode: %v", ErrSourceUnavailable, err)
	}
	if payload == nil {
		return domain.Series{}, fmt.Errorf("%w: payload is null", ErrSourceUnavailable)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Series{}, fmt.Errorf("%w: unexpected data after payload", ErrSourceUnavailable)
	}

	series := domain.Series{
		Rows:    []domain.Sample{},
		Columns: []string{},
		Meta:    metadataFrom(payload),
	}

	seen := make(map[string]bool)
	data, _ := payload["data"].([]interface{})
	for _, item := range data {
		row, _ := item.(map[string]interface{})
		series.Rows = append(series.Rows, sampleFrom(row))
		series.Columns = appendColumns(series.Columns, seen, row)
	}
	return series, nil
}

func metadataFrom(payload map[string]interface{}) *domain.Metadata {
	meta := &domain.Metadata{
		PlantID:    stringValue(payload["plant_id"]),
		InverterSN: stringValue(payload["inverter_sn"]),
		Date:       stringValue(payload["date"]),
		Timezone:   stringValue(payload["timezone"]),
		Units:      map[string]string{},
	}
	if units, ok := payload["units"].(map[string]interface{}); ok {
		for k, v := range units {
			if s := stringValue(v); s != nil {
				meta.Units[k] = *s
			}
		}
	}
	return meta
}

// appendColumns adds the keys of row not seen before, sorted within the row.
func appendColumns(cols []string, seen map[string]bool, row map[string]interface{}) []string {
	var fresh []string
	for key := range row {
		if !seen[key] {
			seen[key] = true
			fresh = append(fresh, key)
		}
	}
	sort.Strings(fresh)
	return append(cols, fresh...)
}

// sampleFrom keeps a missing field missing. Unknown columns land in Extra.
func sampleFrom(row map[string]interface{}) domain.Sample {
	var s domain.Sample
	for key, val := range row {
		switch key {
		case FieldTime:
			if val == nil {
				continue
			}
			// Unparseable timestamps stay missing
			if t, err := parseTimestamp(val); err == nil {
				s.Time = t
			}
		case FieldPac:
			s.Pac = floatValue(val)
		case FieldEday:
			s.Eday = floatValue(val)
		case FieldCbattery1:
			s.Cbattery1 = floatValue(val)
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]interface{})
			}
			s.Extra[key] = plainValue(val)
		}
	}
	return s
}

// plainValue replaces json.Number with float64 so extra columns serialize
// and compare like ordinary decoded JSON.
func plainValue(val interface{}) interface{} {
	switch v := val.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = plainValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, inner := range v {
			out[i] = plainValue(inner)
		}
		return out
	default:
		return v
	}
}
