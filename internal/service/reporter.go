package service

import (
	"context"
	"log/slog"

	"github.com/webitel/im-room-client/internal/adapter/probe"
	"github.com/webitel/im-room-client/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// DefaultTimezone is used when no probe source yields a zone name.
const DefaultTimezone = "UTC"

// [TELEMETRY_SERVICE] COLLECTS AND TRANSMITS THE ONE-TIME HOST SNAPSHOT
type Reporter interface {
	// Snapshot gathers every capability, substituting sentinels for missing ones.
	Snapshot(ctx context.Context) model.TelemetrySnapshot
	// Report sends one snapshot through sender. Callers guarantee one call per connection.
	Report(ctx context.Context, sender Sender) error
}

type TelemetryService struct {
	prober probe.Prober
	logger *slog.Logger
}

func NewTelemetryService(prober probe.Prober, logger *slog.Logger) *TelemetryService {
	return &TelemetryService{
		prober: prober,
		logger: logger,
	}
}

func (s *TelemetryService) Snapshot(ctx context.Context) model.TelemetrySnapshot {
	var snap model.TelemetrySnapshot

	// [FAN_OUT] Probes write disjoint fields and never fail the group.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap.UserAgent = s.prober.UserAgent(gctx).OrElse(model.SentinelUnknown)
		return nil
	})
	g.Go(func() error {
		snap.Cores = s.prober.Cores(gctx).OrElse(0)
		return nil
	})
	g.Go(func() error {
		snap.MemoryGB = s.prober.MemoryGB(gctx).OrElse(model.SentinelMemory)
		return nil
	})
	g.Go(func() error {
		snap.GPU = s.prober.GPU(gctx).OrElse(model.GPUInfo{
			Vendor:   model.SentinelUnknown,
			Renderer: model.SentinelUnknown,
		})
		return nil
	})
	g.Go(func() error {
		snap.Languages = s.prober.Languages(gctx).OrElse(nil)
		return nil
	})
	g.Go(func() error {
		snap.NetworkType = s.prober.NetworkType(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Timezone = s.prober.Timezone(gctx).OrElse(DefaultTimezone)
		return nil
	})

	// [ASYNC_CAPABILITY] Battery is only queried when the feature check passes;
	// the snapshot waits for it.
	if s.prober.BatteryAvailable(ctx) {
		g.Go(func() error {
			status, err := s.prober.Battery(gctx)
			if err != nil {
				s.logger.Debug("BATTERY_QUERY_FAILED", "err", err)
				return nil
			}
			snap.Battery = model.Some(status)
			return nil
		})
	}

	_ = g.Wait()
	return snap
}

func (s *TelemetryService) Report(ctx context.Context, sender Sender) error {
	snap := s.Snapshot(ctx)

	// [ABORT] A session torn down while the battery was pending sends nothing.
	if err := ctx.Err(); err != nil {
		return err
	}

	return sender.SendTelemetry(ctx, snap)
}
