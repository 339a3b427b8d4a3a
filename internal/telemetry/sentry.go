package telemetry

import (
	"context"
	"time"

	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/getsentry/sentry-go"
)

type Config struct {
	DSN         string
	Environment string
	Release     string
}

// Init starts the Sentry client. An empty DSN, or a DSN sentry rejects, leaves
// reporting off and returns a no-op flush.
func Init(cfg Config) func() {
	logger := logger_i.NewLogger("Telemetry")
	if cfg.DSN == "" {
		return func() {}
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		logger.Error("sentry init failed, continuing without it", "error", err)
		return func() {}
	}

	logger.Info("sentry initialized", "environment", cfg.Environment)
	return func() { sentry.Flush(5 * time.Second) }
}

func CaptureError(ctx context.Context, err error) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
