package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/webitel/im-room-client/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ProvideLogLevel holds the live level so a config reload can change it.
func ProvideLogLevel(cfg *config.Config) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	return level
}

// ProvideLogger builds the process logger.
//
// Stdout belongs to the output lines (console) or the screen (tui), so logs go to
// stderr, to a rotating file when log.file is set, or nowhere in tui mode without a file.
// With log.otel the OpenTelemetry SDK is installed and exports to the same sink.
func ProvideLogger(lc fx.Lifecycle, cfg *config.Config, level *slog.LevelVar) (*slog.Logger, error) {
	var w io.Writer = os.Stderr

	switch {
	case cfg.Log.File != "":
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return rotator.Close()
			},
		})
		w = rotator
	case cfg.UI.Mode == config.UIModeTUI:
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if cfg.Log.Otel {
		lp, err := installOtel(lc, w)
		if err != nil {
			return nil, err
		}
		// [OBSERVABILITY] Mirror records into the OpenTelemetry logger provider.
		handler = fanout{handler, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(lp))}
	}

	logger := slog.New(handler).With("service", ServiceName)
	slog.SetDefault(logger)
	return logger, nil
}

// fanout sends every record to all handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
