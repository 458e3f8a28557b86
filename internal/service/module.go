package service

import (
	"log/slog"

	"github.com/webitel/im-room-client/internal/domain/output"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		// Domain services
		NewTelemetryService,
		fx.Annotate(
			NewCommandService,
			fx.As(new(Commander)),
		),
		fx.Annotate(
			NewDispatchService,
			fx.As(new(Dispatcher)),
		),

		// [DECORATION_LAYER] Every Reporter consumer, in any module, gets the decorated one.
		func(orig *TelemetryService, logger *slog.Logger) Reporter {
			return NewReporterMiddleware(orig, logger)
		},

		// [OUTPUT_BINDING] Rendered lines land in the shared output log.
		func(l *output.Log) Display { return l },
	),
)
