// Package collector transmits daily records to the remote collector.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"energia_assistant/internal/domain"
	"energia_assistant/pkg/logger"
)

// SendPath is the collector route that accepts records
const SendPath = "/enviar/"

// TransmissionError reports a collector that was unreachable or answered
// with a non-success status. StatusCode is 0 for connection failures.
type TransmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("collector unreachable: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("collector returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("collector returned status %d", e.StatusCode)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}

// Client posts CollectorRecords. It never retries.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Send transmits rec and decodes the collector's acknowledgment
func (c *Client) Send(ctx context.Context, rec domain.CollectorRecord) (domain.CollectorAck, error) {
	var ack domain.CollectorAck

	body, err := json.Marshal(rec)
	if err != nil {
		return ack, fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SendPath, bytes.NewReader(body))
	if err != nil {
		return ack, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warnf("Collector request failed: %v", err)
		return ack, &TransmissionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnf("Collector returned non-success status %d", resp.StatusCode)
		return ack, &TransmissionError{
			StatusCode: resp.StatusCode,
			Body:       snippet(respBody),
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &ack); err != nil {
			return ack, fmt.Errorf("decode acknowledgment: %w", err)
		}
	}

	logger.Debugf("Collector accepted record for %s in %v", rec.InverterSN, time.Since(start).Round(time.Millisecond))
	return ack, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// RecordFrom reduces a series and its summary to the transmitted record.
// Absent values become 0 or "".
func RecordFrom(series domain.Series, s domain.DailySummary) domain.CollectorRecord {
	rec := domain.CollectorRecord{
		EnergiaTotal: s.EnergiaDia,
		InverterSN:   series.InverterSN(),
	}
	if series.Meta != nil {
		if series.Meta.PlantID != nil {
			rec.PlantID = *series.Meta.PlantID
		}
		if series.Meta.Date != nil {
			rec.Date = *series.Meta.Date
		}
	}
	if s.Valid {
		socIni, socFim, pico := s.SocIni, s.SocFim, s.PicoPotencia
		rec.SocIni = &socIni
		rec.SocFim = &socFim
		rec.PicoPotencia = &pico
	}
	return rec
}
