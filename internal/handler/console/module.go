package console

import "go.uber.org/fx"

var Module = fx.Module("console",
	fx.Provide(New),
)
