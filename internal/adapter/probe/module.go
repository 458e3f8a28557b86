package probe

import (
	"github.com/webitel/im-room-client/config"
	"go.uber.org/fx"
)

var Module = fx.Module("probe",
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config, rtt RTTSource) *Host {
				return NewHost(
					WithRoot(cfg.Telemetry.SysRoot),
					WithRTTSource(rtt),
				)
			},
			fx.As(new(Prober)),
		),
	),
)
