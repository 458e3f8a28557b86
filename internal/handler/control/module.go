package control

import (
	"context"
	"log/slog"

	"github.com/webitel/im-room-client/config"
	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/domain/registry"
	"github.com/webitel/im-room-client/internal/handler/ws"
	"github.com/webitel/im-room-client/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("control-http",
	fx.Provide(
		func(
			cfg *config.Config,
			commander service.Commander,
			reporter service.Reporter,
			lines *output.Log,
			directory registry.Directorier,
			session *ws.Session,
			logger *slog.Logger,
		) *ControlHandler {
			return NewControlHandler(commander, reporter, lines, directory, session, cfg.ChargingFormat(), logger)
		},
		func(cfg *config.Config, h *ControlHandler, logger *slog.Logger) *Server {
			return NewServer(cfg.Control.Addr, h.Routes(), logger)
		},
	),

	// [LIFECYCLE] Off unless control.addr is set.
	fx.Invoke(func(lc fx.Lifecycle, s *Server) {
		if !s.Enabled() {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return s.Start(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return s.Stop(ctx)
			},
		})
	}),
)
