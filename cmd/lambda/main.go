// cmd/lambda summarizes each uploaded daily payload and forwards it to the collector.
package main

import (
	"context"
	"log"

	"energia_assistant/internal/collector"
	"energia_assistant/internal/config"
	"energia_assistant/internal/summary"
	"energia_assistant/internal/telemetry"
	"energia_assistant/pkg/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type handler struct {
	s3     telemetry.ObjectGetter
	sender *collector.Client
}

func newHandler(cfg *config.Config, objects telemetry.ObjectGetter) *handler {
	return &handler{
		s3:     objects,
		sender: collector.NewClient(cfg.CollectorURL, cfg.CollectorTimeoutDuration()),
	}
}

func (h *handler) Handle(ctx context.Context, s3Event events.S3Event) {
	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.URLDecodedKey
		if key == "" {
			key = record.S3.Object.Key
		}

		src := telemetry.NewS3SourceWithClient(h.s3, bucket, key)
		series, err := telemetry.Load(ctx, src)
		if err != nil {
			logger.Warnf("Skipping %s: %v", src.Name(), err)
			continue
		}
		if series.Empty() {
			logger.Warnf("Skipping %s: no samples", src.Name())
			continue
		}

		rec := collector.RecordFrom(series, summary.Daily(series))
		ack, err := h.sender.Send(ctx, rec)
		if err != nil {
			logger.Errorf("Transmission failed for %s: %v", src.Name(), err)
			continue
		}
		logger.Infof("Forwarded %s (inverter %s, energia_total %.2f): %s", src.Name(), rec.InverterSN, rec.EnergiaTotal, ack.Mensagem)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Lambda only keeps stdout
	logger.Init(logger.Options{Level: cfg.LogLevel, Directory: "-"})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	lambda.Start(newHandler(cfg, s3.NewFromConfig(awsCfg)).Handle)
}
