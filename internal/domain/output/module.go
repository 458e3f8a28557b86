package output

import (
	"github.com/webitel/im-room-client/config"
	"go.uber.org/fx"
)

var Module = fx.Module("output",
	fx.Provide(func(cfg *config.Config) *Log {
		return NewLog(cfg.UI.History)
	}),
)
