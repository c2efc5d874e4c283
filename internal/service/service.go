package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"energia_assistant/internal/collector"
	"energia_assistant/internal/domain"
	"energia_assistant/internal/formatter"
	"energia_assistant/internal/summary"
	"energia_assistant/internal/telemetry"
	"energia_assistant/pkg/logger"
)

// ErrNoData is returned by Send when there is nothing to transmit
var ErrNoData = errors.New("no telemetry data available")

// Sender transmits a record to the remote collector
type Sender interface {
	Send(ctx context.Context, rec domain.CollectorRecord) (domain.CollectorAck, error)
}

// SummaryPublisher fans a summary out to secondary consumers
type SummaryPublisher interface {
	PublishSummary(series domain.Series, s domain.DailySummary) error
}

// Report is what the presentation layer renders
type Report struct {
	Series  domain.Series       `json:"series"`
	Summary domain.DailySummary `json:"resumo"`
	KPIs    []domain.KPI        `json:"kpis"`
	Warning string              `json:"warning,omitempty"`
}

// SendResult is the outcome of a successful transmission
type SendResult struct {
	Record domain.CollectorRecord `json:"record"`
	Ack    domain.CollectorAck    `json:"ack"`
}

// Stats counts service activity
type Stats struct {
	Reports       uint64 `json:"reports"`
	Unavailable   uint64 `json:"source_unavailable"`
	Sent          uint64 `json:"sent"`
	SendFailures  uint64 `json:"send_failures"`
	PublishErrors uint64 `json:"publish_errors"`
}

// Service runs the load → summarize pipeline for the analysis and
// transmission paths
type Service struct {
	source    telemetry.Source
	sender    Sender
	publisher SummaryPublisher
	timeout   time.Duration

	reports       uint64
	unavailable   uint64
	sent          uint64
	sendFailures  uint64
	publishErrors uint64
}

// Option configures a Service
type Option func(*Service)

// WithPublisher adds a secondary summary consumer to Send
func WithPublisher(p SummaryPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLoadTimeout bounds each source fetch
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService creates the service
func NewService(source telemetry.Source, sender Sender, opts ...Option) *Service {
	svc := &Service{
		source:  source,
		sender:  sender,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(svc)
	}
	logger.Infof("Service initialized (source: %s)", source.Name())
	return svc
}

// Today loads the configured source and summarizes it. A missing source
// gives an empty report with a warning, never an error.
func (svc *Service) Today(ctx context.Context) Report {
	series := svc.load(ctx)
	report := svc.report(series)
	if series.Meta == nil {
		report.Warning = fmt.Sprintf("Nenhum dado encontrado em %s", svc.source.Name())
	}
	return report
}

// Analyze summarizes a payload handed in by the caller
func (svc *Service) Analyze(raw []byte) (Report, error) {
	series, err := telemetry.Parse(raw)
	if err != nil {
		atomic.AddUint64(&svc.unavailable, 1)
		return svc.report(series), err
	}
	return svc.report(series), nil
}

// Send loads, summarizes and transmits the reduced record. Failures are
// returned to the caller; nothing is retried.
func (svc *Service) Send(ctx context.Context) (SendResult, error) {
	series := svc.load(ctx)
	if series.Empty() {
		return SendResult{}, ErrNoData
	}

	daily := summary.Daily(series, summary.WithEquipment())
	rec := collector.RecordFrom(series, daily)

	ack, err := svc.sender.Send(ctx, rec)
	if err != nil {
		atomic.AddUint64(&svc.sendFailures, 1)
		logger.Errorf("Transmission failed for inverter %s: %v", rec.InverterSN, err)
		return SendResult{Record: rec}, err
	}
	atomic.AddUint64(&svc.sent, 1)
	logger.Infof("Sent energia_total=%.2f for inverter %s", rec.EnergiaTotal, rec.InverterSN)

	if svc.publisher != nil {
		if err := svc.publisher.PublishSummary(series, daily); err != nil {
			atomic.AddUint64(&svc.publishErrors, 1)
			logger.Warnf("Summary publish failed: %v", err)
		}
	}

	return SendResult{Record: rec, Ack: ack}, nil
}

// GetStats returns current counters
func (svc *Service) GetStats() Stats {
	return Stats{
		Reports:       atomic.LoadUint64(&svc.reports),
		Unavailable:   atomic.LoadUint64(&svc.unavailable),
		Sent:          atomic.LoadUint64(&svc.sent),
		SendFailures:  atomic.LoadUint64(&svc.sendFailures),
		PublishErrors: atomic.LoadUint64(&svc.publishErrors),
	}
}

func (svc *Service) load(ctx context.Context) domain.Series {
	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	series, err := telemetry.Load(ctx, svc.source)
	if err != nil {
		atomic.AddUint64(&svc.unavailable, 1)
		logger.Warnf("Telemetry source unavailable: %v", err)
	}
	return series
}

func (svc *Service) report(series domain.Series) Report {
	atomic.AddUint64(&svc.reports, 1)
	if series.Rows == nil {
		series.Rows = []domain.Sample{}
	}
	if series.Columns == nil {
		series.Columns = []string{}
	}
	daily := summary.Daily(series, summary.WithEquipment())
	return Report{
		Series:  series,
		Summary: daily,
		KPIs:    formatter.KPIs(daily),
	}
}
