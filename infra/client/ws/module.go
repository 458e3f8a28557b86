package wsclient

import (
	"github.com/webitel/im-room-client/internal/adapter/probe"
	"go.uber.org/fx"
)

var Module = fx.Module("ws_client",
	// [CONSTRUCTOR] One dialer per process; the session dials through it exactly once.
	fx.Provide(New),

	// [RTT_SOURCE] The network probe reads the handshake timing from the same client.
	fx.Provide(func(c *Client) probe.RTTSource { return c }),
)
