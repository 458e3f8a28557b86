// Package wsclient dials the single WebSocket endpoint the room client talks to.
package wsclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/webitel/im-room-client/config"
)

// Client wraps a gorilla dialer and remembers how long the last handshake took.
// The handshake RTT feeds the network effective-type probe.
type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	logger *slog.Logger

	// rtt is the last handshake duration in nanoseconds; zero until a dial succeeds.
	rtt atomic.Int64
}

func New(cfg *config.Config, logger *slog.Logger) *Client {
	header := http.Header{}
	if cfg.Server.Origin != "" {
		header.Set("Origin", cfg.Server.Origin)
	}

	return &Client{
		url:    cfg.Server.URL,
		header: header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.Server.HandshakeTimeout,
		},
		logger: logger,
	}
}

// Dial opens the connection. There is no retry: a failed dial is returned as is.
func (c *Client) Dial(ctx context.Context) (*websocket.Conn, error) {
	start := time.Now()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %s)", c.url, err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}

	rtt := time.Since(start)
	c.rtt.Store(int64(rtt))

	c.logger.Debug("WS_HANDSHAKE_COMPLETED",
		"url", c.url,
		"rtt_ms", rtt.Milliseconds(),
	)
	return conn, nil
}

// HandshakeRTT reports the duration of the last successful handshake.
func (c *Client) HandshakeRTT() (time.Duration, bool) {
	v := c.rtt.Load()
	if v <= 0 {
		return 0, false
	}
	return time.Duration(v), true
}
