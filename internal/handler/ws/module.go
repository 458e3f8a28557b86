package ws

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/im-room-client/config"
	wsclient "github.com/webitel/im-room-client/infra/client/ws"
	"github.com/webitel/im-room-client/internal/adapter/pubsub"
	"github.com/webitel/im-room-client/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ws-session",
	fx.Provide(
		func(cfg *config.Config, client *wsclient.Client, reporter service.Reporter, frames pubsub.FrameDispatcher, logger *slog.Logger) *Session {
			return NewSession(client, reporter, frames, Settings{
				Revision:       cfg.Revision(),
				ChargingFormat: cfg.ChargingFormat(),
				WriteTimeout:   cfg.Server.WriteTimeout,
				CloseTimeout:   cfg.Server.CloseTimeout,
			}, logger)
		},
		func(s *Session) service.Sender { return s },
	),

	// [LIFECYCLE] The router parameter orders this hook after the bus is running,
	// so the directory message always has a subscriber.
	fx.Invoke(func(lc fx.Lifecycle, s *Session, _ *message.Router) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return s.Open(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return s.Close(ctx)
			},
		})
	}),
)
