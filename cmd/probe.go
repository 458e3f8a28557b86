package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	wsclient "github.com/webitel/im-room-client/infra/client/ws"
	"github.com/webitel/im-room-client/internal/adapter/probe"
	"github.com/webitel/im-room-client/internal/domain/model"
	wsmarshaller "github.com/webitel/im-room-client/internal/handler/marshaller/ws"
	"github.com/webitel/im-room-client/internal/service"
)

func probeCmd() *cli.Command {
	return &cli.Command{
		Name:    "probe",
		Aliases: []string{"p"},
		Usage:   "Print the telemetry this client would report and exit",
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "dial",
				Usage: "Open and close one connection to measure the network type",
			},
		),
		Action: func(c *cli.Context) error {
			_, cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			opts := []probe.Option{probe.WithRoot(cfg.Telemetry.SysRoot)}

			if c.Bool("dial") {
				client := wsclient.New(cfg, logger)
				conn, err := client.Dial(c.Context)
				if err != nil {
					return err
				}
				_ = conn.Close()
				opts = append(opts, probe.WithRTTSource(client))
			}

			reporter := service.NewTelemetryService(probe.NewHost(opts...), logger)
			printSnapshot(c.Context, c.App.Writer, reporter, cfg.ChargingFormat())
			return nil
		},
	}
}

func printSnapshot(ctx context.Context, w io.Writer, reporter service.Reporter, format model.ChargingFormat) {
	fields := wsmarshaller.TelemetryFields(reporter.Snapshot(ctx), format)
	for i, v := range fields {
		fmt.Fprintf(w, "%-14s %s\n", model.TelemetryFieldNames[i]+":", v)
	}
}
