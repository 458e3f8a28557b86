package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"
	"github.com/webitel/im-room-client/config"
	"github.com/webitel/im-room-client/internal/domain/model"
	"go.uber.org/fx"
)

const (
	ServiceName      = model.ClientName
	ServiceNamespace = "webitel"
)

var (
	version        = "0.0.0"
	commit         = "hash"
	commitDate     = time.Now().String()
	branch         = "branch"
	buildTimestamp = ""
)

func Run() error {
	model.ClientVersion = version

	app := &cli.App{
		Name:    ServiceName,
		Usage:   "Terminal client for WebSocket chat rooms",
		Version: version,
		Commands: []*cli.Command{
			clientCmd(),
			probeCmd(),
			versionCmd(),
		},
	}

	return app.Run(os.Args)
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config_file",
			Usage: "Path to the configuration file",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "WebSocket endpoint, e.g. ws://localhost:9001",
		},
		&cli.IntFlag{
			Name:  "revision",
			Usage: "Opcode revision: 1 (CREATE=0, JOIN=1) or 2 (CREATE=1, JOIN=2)",
		},
		&cli.StringFlag{
			Name:  "log_level",
			Usage: "debug, info, warn or error",
		},
	}
}

func clientCmd() *cli.Command {
	return &cli.Command{
		Name:    "client",
		Aliases: []string{"c"},
		Usage:   "Connect to the room server and run a front-end",
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Use the full-screen terminal UI",
			},
			&cli.StringFlag{
				Name:  "control_addr",
				Usage: "Listen address of the local HTTP control API (disabled when empty)",
			},
		),
		Action: func(c *cli.Context) error {
			loader, cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			var frontend Frontend
			app := NewApp(cfg, loader, fx.Populate(&frontend))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}

			runErr := frontend.Run(ctx)

			stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
			defer cancelStop()
			if err := app.Stop(stopCtx); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "%s/%s %s\ncommit: %s (%s)\nbranch: %s\nbuilt: %s\n",
				ServiceNamespace, ServiceName, version, commit, commitDate, branch, buildTimestamp)
			return nil
		},
	}
}

// loadConfig maps the cli flags that were set onto config keys and loads the config.
func loadConfig(c *cli.Context) (*config.Loader, *config.Config, error) {
	fs := pflag.NewFlagSet(ServiceName, pflag.ContinueOnError)
	config.RegisterFlags(fs)

	overrides := map[string]string{
		"url":          "server.url",
		"control_addr": "control.addr",
		"log_level":    "log.level",
	}
	for name, key := range overrides {
		if c.IsSet(name) {
			if err := fs.Set(key, c.String(name)); err != nil {
				return nil, nil, fmt.Errorf("flag --%s: %w", name, err)
			}
		}
	}
	if c.IsSet("revision") {
		if err := fs.Set("protocol.revision", strconv.Itoa(c.Int("revision"))); err != nil {
			return nil, nil, fmt.Errorf("flag --revision: %w", err)
		}
	}
	if c.Bool("tui") {
		if err := fs.Set("ui.mode", config.UIModeTUI); err != nil {
			return nil, nil, err
		}
	}

	loader, err := config.NewLoader(c.String("config_file"), fs)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return loader, cfg, nil
}
