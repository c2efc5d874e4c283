package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// floatValue converts a decoded JSON value into a float. nil, NaN and
// non-numeric values are reported as missing.
func floatValue(val interface{}) *float64 {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// stringValue converts scalar JSON values to their string form; numbers
// are accepted because plant ids are sometimes sent unquoted.
func stringValue(val interface{}) *string {
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil
	}
	return &s
}

// timestampLayouts are tried in order. Layouts without an offset yield
// instants already on the reference clock.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTimestamp converts an ISO-8601 value to a naive instant: the offset
// is applied, then dropped by moving to UTC.
func parseTimestamp(val interface{}) (*time.Time, error) {
	s, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("timestamp is %T, not a string", val)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", s)
}
