package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keyconfig/internal/config/loader"
	"github.com/dshills/keyconfig/internal/daemon/sysfs"
	"github.com/dshills/keyconfig/internal/logging"
)

// Backend selects the daemon implementation.
type Backend string

// Daemon backends.
const (
	// BackendSysfs drives the LED class devices directly.
	BackendSysfs Backend = "sysfs"
	// BackendHelper spawns a privileged helper and talks rpc over its stdio.
	BackendHelper Backend = "helper"
	// BackendWS dials a keyconfig serve hub.
	BackendWS Backend = "ws"
	// BackendMemory uses an in-memory board. Intended for demos and tests.
	BackendMemory Backend = "memory"
	// BackendNone reports no hardware.
	BackendNone Backend = "none"
)

// Backends returns every backend name.
func Backends() []Backend {
	return []Backend{BackendSysfs, BackendHelper, BackendWS, BackendMemory, BackendNone}
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the complete configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Daemon  DaemonConfig  `toml:"daemon"`
	Store   StoreConfig   `toml:"store"`
	Serve   ServeConfig   `toml:"serve"`
}

// LoggingConfig is the [logging] section.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DaemonConfig is the [daemon] section.
type DaemonConfig struct {
	Backend   Backend  `toml:"backend"`
	SysfsRoot string   `toml:"sysfsRoot"`
	Helper    []string `toml:"helper"`
	URL       string   `toml:"url"`
	Timeout   Duration `toml:"timeout"`
}

// StoreConfig is the [store] section.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ServeConfig is the [serve] section.
type ServeConfig struct {
	Listen string `toml:"listen"`
}

// DefaultListen is the default hub address.
const DefaultListen = "127.0.0.1:7300"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Daemon: DaemonConfig{
			Backend:   BackendSysfs,
			SysfsRoot: sysfs.DefaultRoot,
			Helper:    []string{"pkexec", "keyconfig", "daemon"},
			URL:       "ws://" + DefaultListen + "/ws",
			Timeout:   Duration(5 * time.Second),
		},
		Store: StoreConfig{Path: DefaultStorePath()},
		Serve: ServeConfig{Listen: DefaultListen},
	}
}

// EnvMapping maps environment variables to config paths.
var EnvMapping = map[string]string{
	"KEYCONFIG_LOG_LEVEL":         "logging.level",
	"KEYCONFIG_DAEMON_BACKEND":    "daemon.backend",
	"KEYCONFIG_DAEMON_SYSFS_ROOT": "daemon.sysfsRoot",
	"KEYCONFIG_DAEMON_HELPER":     "daemon.helper",
	"KEYCONFIG_DAEMON_URL":        "daemon.url",
	"KEYCONFIG_DAEMON_TIMEOUT":    "daemon.timeout",
	"KEYCONFIG_STORE_PATH":        "store.path",
	"KEYCONFIG_SERVE_LISTEN":      "serve.listen",
}

// DefaultPath returns $XDG_CONFIG_HOME/keyconfig/config.toml, or a relative
// config.toml when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "keyconfig", "config.toml")
}

// DefaultStorePath returns $XDG_DATA_HOME/keyconfig/bindings.db.
func DefaultStorePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "bindings.db"
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "keyconfig", "bindings.db")
}

// Load builds a configuration from the defaults, the TOML file at path and
// the environment, then validates it. A missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(EnvMapping))
}

// LoadRequired is Load but fails with ErrFileNotFound when path is missing.
func LoadRequired(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return Load(path)
}

// LoadFrom layers sources over the defaults in order and validates the result.
func LoadFrom(sources ...loader.Loader) (*Config, error) {
	merged := make(map[string]any)
	for _, src := range sources {
		m, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg := Default()
	if len(merged) > 0 {
		if err := cfg.apply(merged); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a merged map over cfg. Unknown keys are rejected.
func (c *Config) apply(m map[string]any) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}

	switch c.Daemon.Backend {
	case BackendSysfs:
		if c.Daemon.SysfsRoot == "" {
			return fmt.Errorf("%w: daemon.sysfsRoot is empty", ErrInvalidConfig)
		}
	case BackendHelper:
		if len(c.Daemon.Helper) == 0 || c.Daemon.Helper[0] == "" {
			return fmt.Errorf("%w: daemon.helper needs a command", ErrInvalidConfig)
		}
	case BackendWS:
		u, err := url.Parse(c.Daemon.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("%w: daemon.url %q is not a ws:// or wss:// URL", ErrInvalidConfig, c.Daemon.URL)
		}
	case BackendMemory, BackendNone:
	default:
		return fmt.Errorf("%w: daemon.backend %q (want one of %v)", ErrInvalidConfig, c.Daemon.Backend, Backends())
	}
	if c.Daemon.Timeout < 0 {
		return fmt.Errorf("%w: daemon.timeout is negative", ErrInvalidConfig)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalidConfig)
	}
	if _, _, err := net.SplitHostPort(c.Serve.Listen); err != nil {
		return fmt.Errorf("%w: serve.listen: %v", ErrInvalidConfig, err)
	}
	return nil
}
