package cmd

import (
	"context"
	"log/slog"

	"github.com/webitel/im-room-client/config"
	wsclient "github.com/webitel/im-room-client/infra/client/ws"
	"github.com/webitel/im-room-client/internal/adapter/probe"
	"github.com/webitel/im-room-client/internal/adapter/pubsub"
	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/domain/registry"
	"github.com/webitel/im-room-client/internal/handler/bus"
	"github.com/webitel/im-room-client/internal/handler/console"
	"github.com/webitel/im-room-client/internal/handler/control"
	"github.com/webitel/im-room-client/internal/handler/tui"
	"github.com/webitel/im-room-client/internal/handler/ws"
	"github.com/webitel/im-room-client/internal/service"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Frontend is the user-facing loop; Run returns when the user quits.
type Frontend interface {
	Run(ctx context.Context) error
}

func NewApp(cfg *config.Config, loader *config.Loader, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			func() *config.Loader { return loader },
			ProvideLogLevel,
			ProvideLogger,
			ProvideFrontend,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		fx.Invoke(WatchConfig),

		// order matters for hooks: the bus must run before the session dials
		pubsub.Module,
		bus.Module,
		wsclient.Module,
		probe.Module,
		registry.Module,
		output.Module,
		service.Module,
		ws.Module,
		console.Module,
		tui.Module,
		control.Module,

		fx.Options(opts...),
	)
}

// ProvideFrontend picks the front-end configured by ui.mode.
func ProvideFrontend(cfg *config.Config, c *console.Console, s *tui.Screen) Frontend {
	if cfg.UI.Mode == config.UIModeTUI {
		return s
	}
	return c
}

// WatchConfig applies log level edits from the config file without a restart.
func WatchConfig(loader *config.Loader, level *slog.LevelVar, logger *slog.Logger) {
	watching := loader.Watch(
		func(cfg *config.Config) {
			level.Set(cfg.SlogLevel())
			logger.Info("CONFIG_RELOADED", "log_level", cfg.SlogLevel().String())
		},
		func(err error) {
			logger.Warn("CONFIG_RELOAD_REJECTED", "err", err)
		},
	)
	if watching {
		logger.Debug("CONFIG_WATCH_STARTED")
	}
}
