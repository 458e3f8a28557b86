package bus

import (
	"go.uber.org/fx"
)

var Module = fx.Module("bus-handler",
	fx.Provide(
		NewFrameConsumer,
		NewWatermillRouter,
	),

	fx.Invoke((*FrameConsumer).RegisterHandlers),
)
