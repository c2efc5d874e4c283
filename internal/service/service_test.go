package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energia_assistant/internal/collector"
	"energia_assistant/internal/domain"
	"energia_assistant/internal/telemetry"
)

const dayPayload = `{
	"plant_id": "PLANT-001",
	"inverter_sn": "SN1",
	"date": "2025-10-01",
	"data": [
		{"time": "2025-10-01T08:00:00-03:00", "Pac": 0.85, "Eday": 0.85, "Cbattery1": 64},
		{"time": "2025-10-01T12:00:00-03:00", "Pac": 2.22, "Eday": 2.03, "Cbattery1": 66},
		{"time": "2025-10-01T16:00:00-03:00", "Pac": 1.5, "Eday": 3.89, "Cbattery1": 68}
	]
}`

type fakeSender struct {
	records []domain.CollectorRecord
	err     error
}

func (f *fakeSender) Send(_ context.Context, rec domain.CollectorRecord) (domain.CollectorAck, error) {
	f.records = append(f.records, rec)
	if f.err != nil {
		return domain.CollectorAck{}, f.err
	}
	return domain.CollectorAck{Status: "ok", InverterSN: rec.InverterSN, EnergiaTotal: rec.EnergiaTotal}, nil
}

type fakePublisher struct {
	published []domain.DailySummary
}

func (f *fakePublisher) PublishSummary(_ domain.Series, s domain.DailySummary) error {
	f.published = append(f.published, s)
	return nil
}

func writePayload(t *testing.T, body string) telemetry.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mock_today.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return telemetry.NewFileSource(path)
}

func TestTodayReport(t *testing.T) {
	svc := NewService(writePayload(t, dayPayload), &fakeSender{})

	report := svc.Today(context.Background())
	assert.Empty(t, report.Warning)
	assert.Len(t, report.Series.Rows, 3)
	assert.Equal(t, 3.89, report.Summary.EnergiaDia)
	assert.Equal(t, 64, report.Summary.SocIni)
	assert.Equal(t, 68, report.Summary.SocFim)
	assert.Equal(t, 2.22, report.Summary.PicoPotencia)
	require.NotNil(t, report.Summary.Equipamento)
	assert.Equal(t, "SN1", *report.Summary.Equipamento)
	assert.Equal(t, "3,89 kWh", report.KPIs[0].Value)
}

func TestTodayMissingSource(t *testing.T) {
	svc := NewService(telemetry.NewFileSource(filepath.Join(t.TempDir(), "missing.json")), &fakeSender{})

	report := svc.Today(context.Background())
	assert.NotEmpty(t, report.Warning)
	assert.True(t, report.Series.Empty())
	assert.NotNil(t, report.Series.Rows)
	assert.False(t, report.Summary.Valid)
	assert.Equal(t, uint64(1), svc.GetStats().Unavailable)
}

func TestAnalyzeInvalidPayload(t *testing.T) {
	svc := NewService(writePayload(t, dayPayload), &fakeSender{})

	report, err := svc.Analyze([]byte(`{not json`))
	assert.ErrorIs(t, err, telemetry.ErrSourceUnavailable)
	assert.False(t, report.Summary.Valid)
}

func TestSendTransmitsRecord(t *testing.T) {
	sender := &fakeSender{}
	pub := &fakePublisher{}
	svc := NewService(writePayload(t, dayPayload), sender, WithPublisher(pub))

	result, err := svc.Send(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.records, 1)

	assert.Equal(t, 3.89, sender.records[0].EnergiaTotal)
	assert.Equal(t, "SN1", sender.records[0].InverterSN)
	assert.Equal(t, "ok", result.Ack.Status)
	assert.Len(t, pub.published, 1)
	assert.Equal(t, uint64(1), svc.GetStats().Sent)
}

func TestSendMatchesAnalysisPath(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(writePayload(t, dayPayload), sender)

	report := svc.Today(context.Background())
	_, err := svc.Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.Summary.EnergiaDia, sender.records[0].EnergiaTotal)
	assert.Equal(t, report.Summary.SocIni, *sender.records[0].SocIni)
}

func TestSendNoData(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(writePayload(t, `{"inverter_sn": "SN1"}`), sender)

	_, err := svc.Send(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, sender.records)
}

func TestSendFailureIsReturned(t *testing.T) {
	sender := &fakeSender{err: &collector.TransmissionError{StatusCode: 500}}
	pub := &fakePublisher{}
	svc := NewService(writePayload(t, dayPayload), sender, WithPublisher(pub))

	result, err := svc.Send(context.Background())
	var terr *collector.TransmissionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, 500, terr.StatusCode)
	assert.Equal(t, "SN1", result.Record.InverterSN)
	assert.Len(t, sender.records, 1, "no retry")
	assert.Empty(t, pub.published)
	assert.Equal(t, uint64(1), svc.GetStats().SendFailures)
}
