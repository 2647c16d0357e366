package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "reactor"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "REACTOR"

	// DefaultAddr is the default listen address of the live server.
	DefaultAddr = ":8080"

	// DefaultSelector locates the mount container in the host page.
	DefaultSelector = "#app"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// Config is the complete reactor configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// configPath is the file the configuration was read from, if any.
	configPath string
}

// ServerConfig configures the live server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// AppConfig configures the mounted application.
type AppConfig struct {
	// Page is an HTML file used as host page. Empty means a blank page
	// with a single <div id="app">.
	Page string `mapstructure:"page"`

	// Selector locates the mount container.
	Selector string `mapstructure:"selector"`

	// State is a YAML file with the initial state.
	State string `mapstructure:"state"`

	// Watch re-applies State whenever the file changes.
	Watch bool `mapstructure:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		App: AppConfig{
			Selector: DefaultSelector,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "reactor",
		},
	}
}

// SetDefaults registers the defaults of New on v, so that environment
// variables are honored for every key.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdownTimeout", d.Server.ShutdownTimeout)
	v.SetDefault("app.page", d.App.Page)
	v.SetDefault("app.selector", d.App.Selector)
	v.SetDefault("app.state", d.App.State)
	v.SetDefault("app.watch", d.App.Watch)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// NewViper returns a viper instance with defaults and environment binding.
// If file is empty, reactor.yaml is searched in dirs.
func NewViper(file string, dirs ...string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file of v, if one exists, and decodes the
// result. A missing file found by search is not an error; an explicitly
// named file that cannot be read is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.New("R021").Wrap(err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("R021").WithDetail("cannot decode configuration").Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("R020").WithDetail("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("R020").WithDetail("server.shutdownTimeout must not be negative")
	}
	if strings.TrimSpace(c.App.Selector) == "" {
		return errors.New("R020").WithDetail("app.selector must not be empty")
	}
	if c.App.Watch && c.App.State == "" {
		return errors.New("R020").
			WithDetail("app.watch requires app.state").
			WithSuggestion("Set app.state to the YAML file to watch")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("R020").WithDetailf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("R020").WithDetailf("unknown log format %q", c.Log.Format)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured slog level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	if lvl, ok := levels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
