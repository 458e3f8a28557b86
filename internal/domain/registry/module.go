package registry

import (
	"github.com/webitel/im-room-client/config"
	"go.uber.org/fx"
)

var Module = fx.Module("registry",
	fx.Provide(
		func(cfg *config.Config) *Directory {
			return NewDirectory(
				WithCapacity(cfg.Directory.Capacity),
			)
		},
		// [INTERFACE_BINDING] Consumers depend on Directorier, the control API reads *Directory.
		func(d *Directory) Directorier { return d },
	),
)
