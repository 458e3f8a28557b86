package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/webitel/im-room-client/config"
	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/handler/console"
	"github.com/webitel/im-room-client/internal/handler/tui"
	"github.com/webitel/im-room-client/internal/service"
	"go.uber.org/fx"
)

// runClientFlags parses args with the client command's flags and returns what loadConfig built.
func runClientFlags(t *testing.T, args ...string) (*config.Loader, *config.Config, error) {
	t.Helper()

	var (
		loader *config.Loader
		cfg    *config.Config
		err    error
	)
	app := &cli.App{
		Name: ServiceName,
		Commands: []*cli.Command{{
			Name:  "client",
			Flags: clientCmd().Flags,
			Action: func(c *cli.Context) error {
				loader, cfg, err = loadConfig(c)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{ServiceName, "client"}, args...)))
	return loader, cfg, err
}

func TestLoadConfig_FlagsMapOntoKeys(t *testing.T) {
	_, cfg, err := runClientFlags(t,
		"--url", "ws://rooms.example:9001",
		"--revision", "2",
		"--tui",
		"--control_addr", "127.0.0.1:0",
		"--log_level", "debug",
	)
	require.NoError(t, err)

	assert.Equal(t, "ws://rooms.example:9001", cfg.Server.URL)
	assert.Equal(t, model.Revision2, cfg.Revision())
	assert.Equal(t, config.UIModeTUI, cfg.UI.Mode)
	assert.Equal(t, "127.0.0.1:0", cfg.Control.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_UnsetFlagsKeepDefaults(t *testing.T) {
	_, cfg, err := runClientFlags(t)
	require.NoError(t, err)

	assert.Equal(t, model.Revision1, cfg.Revision())
	assert.Equal(t, config.UIModeConsole, cfg.UI.Mode)
	assert.Empty(t, cfg.Control.Addr)
}

func TestLoadConfig_InvalidFlagRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown revision", []string{"--revision", "3"}},
		{"bad scheme", []string{"--url", "http://rooms.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runClientFlags(t, tt.args...)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestNewApp_GraphResolves(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Frontend
	}{
		{"console by default", nil, &console.Console{}},
		{"tui flag", []string{"--tui"}, &tui.Screen{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, cfg, err := runClientFlags(t, tt.args...)
			require.NoError(t, err)

			var frontend Frontend
			app := NewApp(cfg, loader, fx.Populate(&frontend))
			require.NoError(t, app.Err())
			assert.IsType(t, tt.want, frontend)
		})
	}
}

type fixedReporter struct{ snapshot model.TelemetrySnapshot }

func (r fixedReporter) Snapshot(context.Context) model.TelemetrySnapshot { return r.snapshot }

func (r fixedReporter) Report(ctx context.Context, sender service.Sender) error {
	return sender.SendTelemetry(ctx, r.snapshot)
}

func TestPrintSnapshot(t *testing.T) {
	reporter := fixedReporter{snapshot: model.TelemetrySnapshot{
		UserAgent: "im-room-client/test",
		Cores:     4,
		GPU:       model.GPUInfo{Vendor: model.SentinelUnknown, Renderer: model.SentinelUnknown},
		Languages: []string{"en-US"},
		Timezone:  "UTC",
	}}

	var out bytes.Buffer
	printSnapshot(context.Background(), &out, reporter, model.ChargingFlag)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, model.TelemetryFieldCount)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, model.TelemetryFieldNames[i]+":"), line)
	}
	assert.Equal(t, "im-room-client/test", strings.TrimSpace(strings.TrimPrefix(lines[0], "User agent:")))
	assert.Equal(t, "?", strings.TrimSpace(strings.TrimPrefix(lines[6], "Connection:")))
	assert.Equal(t, "?", strings.TrimSpace(strings.TrimPrefix(lines[7], "Battery (%):")))
	assert.Equal(t, "Charging:", strings.TrimSpace(lines[8]))
}
