package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/fx"
)

var Module = fx.Module("pubsub",
	fx.Provide(
		NewWatermillLogger,
		NewGoChannel,

		// [PORTS] The same channel is both ends of the bus.
		func(ch *gochannel.GoChannel) message.Publisher { return ch },
		func(ch *gochannel.GoChannel) message.Subscriber { return ch },

		NewFrameDispatcher,
	),

	// [LIFECYCLE] Closing the channel unblocks any publisher still waiting for an ack.
	fx.Invoke(func(lc fx.Lifecycle, ch *gochannel.GoChannel) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return ch.Close()
			},
		})
	}),
)
