package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/webitel/im-room-client/internal/domain/model"
)

const EnvPrefix = "IM_ROOM_CLIENT"

const (
	UIModeConsole = "console"
	UIModeTUI     = "tui"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Protocol  ProtocolConfig  `mapstructure:"protocol"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
	Control   ControlConfig   `mapstructure:"control"`
	Directory DirectoryConfig `mapstructure:"directory"`
}

// ServerConfig describes the single WebSocket endpoint the client talks to.
type ServerConfig struct {
	URL              string        `mapstructure:"url"`
	Origin           string        `mapstructure:"origin"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	CloseTimeout     time.Duration `mapstructure:"close_timeout"`
}

type ProtocolConfig struct {
	Revision       int    `mapstructure:"revision"`
	ChargingFormat string `mapstructure:"charging_format"`
}

type TelemetryConfig struct {
	// SysRoot prefixes every sysfs/etc path the probes read. Tests and containers override it.
	SysRoot string `mapstructure:"sys_root"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	Otel       bool   `mapstructure:"otel"`
}

type UIConfig struct {
	Mode    string `mapstructure:"mode"`
	History int    `mapstructure:"history"`
}

type ControlConfig struct {
	Addr string `mapstructure:"addr"`
}

type DirectoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// Revision returns the configured opcode revision.
func (c *Config) Revision() model.Revision { return model.Revision(c.Protocol.Revision) }

// ChargingFormat returns the configured charging flag representation.
func (c *Config) ChargingFormat() model.ChargingFormat {
	return model.ChargingFormat(c.Protocol.ChargingFormat)
}

// SlogLevel parses Log.Level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "ws://localhost:9001")
	v.SetDefault("server.origin", "")
	v.SetDefault("server.handshake_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.close_timeout", time.Second)

	v.SetDefault("protocol.revision", int(model.DefaultRevision))
	v.SetDefault("protocol.charging_format", string(model.ChargingFlag))

	v.SetDefault("telemetry.sys_root", "/")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.otel", false)

	v.SetDefault("ui.mode", UIModeConsole)
	v.SetDefault("ui.history", 1000)

	v.SetDefault("control.addr", "")

	v.SetDefault("directory.capacity", 1024)
}

// RegisterFlags declares the command-line overrides, keyed like the config file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("server.url", "", "WebSocket endpoint")
	fs.Int("protocol.revision", int(model.DefaultRevision), "opcode revision (1 or 2)")
	fs.String("ui.mode", UIModeConsole, "front-end: console or tui")
	fs.String("control.addr", "", "listen address of the local HTTP control API")
	fs.String("log.level", "info", "log level")
}

// Loader owns the viper instance so the file can be watched after the first load.
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader merges defaults, the optional config file, IM_ROOM_CLIENT_* env vars and
// changed flags, in increasing priority.
func NewLoader(file string, flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	return &Loader{v: v, file: file}, nil
}

func (l *Loader) Load() (*Config, error) {
	cfg := new(Config)
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch calls fn with the re-decoded config whenever the file changes.
// Invalid edits are reported through onErr and otherwise ignored.
func (l *Loader) Watch(fn func(*Config), onErr func(error)) bool {
	if l.file == "" {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.Load()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
	return true
}

// LoadConfig is the one-shot form of NewLoader + Load.
func LoadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	l, err := NewLoader(file, flags)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Server.URL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("server.url: %w", err))
	case u.Scheme != "ws" && u.Scheme != "wss":
		errs = append(errs, fmt.Errorf("server.url: scheme must be ws or wss, got %q", u.Scheme))
	}

	if !c.Revision().Valid() {
		errs = append(errs, fmt.Errorf("protocol.revision: %w: %d", model.ErrUnknownRevision, c.Protocol.Revision))
	}
	if err := c.ChargingFormat().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("protocol.charging_format: %w", err))
	}

	switch c.UI.Mode {
	case UIModeConsole, UIModeTUI:
	default:
		errs = append(errs, fmt.Errorf("ui.mode: unknown mode %q", c.UI.Mode))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
