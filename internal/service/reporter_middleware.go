package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webitel/im-room-client/internal/domain/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/webitel/im-room-client/internal/service"

// ReporterMiddleware implements [DECORATOR_PATTERN] to add observability
// to telemetry reporting without touching the collection logic.
type ReporterMiddleware struct {
	Next   Reporter
	Logger *slog.Logger
	Tracer trace.Tracer
}

// NewReporterMiddleware creates a logging and tracing decorator for the Reporter.
func NewReporterMiddleware(next Reporter, logger *slog.Logger) Reporter {
	return &ReporterMiddleware{
		Next:   next,
		Logger: logger,
		Tracer: otel.Tracer(tracerName),
	}
}

func (m *ReporterMiddleware) Snapshot(ctx context.Context) model.TelemetrySnapshot {
	ctx, span := m.Tracer.Start(ctx, "telemetry.snapshot")
	defer span.End()

	start := time.Now()
	snap := m.Next.Snapshot(ctx)

	span.SetAttributes(
		attribute.Bool("telemetry.battery", snap.Battery.IsPresent()),
		attribute.Bool("telemetry.network", snap.NetworkType.IsPresent()),
	)
	m.Logger.Debug("TELEMETRY_SNAPSHOT_COLLECTED",
		"duration_ms", time.Since(start).Milliseconds(),
		"battery", snap.Battery.IsPresent(),
	)
	return snap
}

// Report wraps the one-shot transmission with execution timing and outcome logging.
func (m *ReporterMiddleware) Report(ctx context.Context, sender Sender) error {
	ctx, span := m.Tracer.Start(ctx, "telemetry.report")
	defer span.End()

	start := time.Now()

	// [EXECUTION]
	err := m.Next.Report(ctx, sender)

	// [OBSERVABILITY]
	duration := time.Since(start)

	switch {
	case err == nil:
		m.Logger.Info("TELEMETRY_REPORTED",
			"duration_ms", duration.Milliseconds(),
		)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		span.AddEvent("aborted")
		m.Logger.Debug("TELEMETRY_ABORTED",
			"err", err,
			"duration_ms", duration.Milliseconds(),
		)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.Logger.Warn("TELEMETRY_REPORT_FAILED",
			"err", err,
			"duration_ms", duration.Milliseconds(),
		)
	}

	return err
}
