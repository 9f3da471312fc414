// Package config loads configuration from defaults, an optional YAML file,
// and COVID_REPORT_-prefixed environment variables, in that priority order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides,
// e.g. COVID_REPORT_SERVER_ADDR=:9090.
const EnvPrefix = "COVID_REPORT_"

// DefaultConfigPaths lists where the config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/covid-report/config.yaml",
}

// Config is the full application configuration.
type Config struct {
	Data   DataConfig   `koanf:"data"`
	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Export ExportConfig `koanf:"export"`
	Log    LogConfig    `koanf:"log"`
}

// DataConfig locates the two source snapshots.
type DataConfig struct {
	TimeSeriesPath string `koanf:"timeseries" validate:"required"`
	SnapshotPath   string `koanf:"snapshot" validate:"required"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `koanf:"addr" validate:"required"`
	RefreshTimeout time.Duration `koanf:"refresh_timeout" validate:"gt=0"`
}

// StoreConfig holds the run-audit database location.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// ExportConfig holds the export output directory.
type ExportConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			TimeSeriesPath: "data/full_grouped.csv",
			SnapshotPath:   "data/worldometer_data.csv",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RefreshTimeout: 2 * time.Minute,
		},
		Store: StoreConfig{
			Path: "covid-report.db",
		},
		Export: ExportConfig{
			Dir: "output",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. path may be empty, in which case the
// default locations are probed; a missing config file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		for _, p := range DefaultConfigPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envToKey maps COVID_REPORT_SERVER_ADDR to server.addr. Only the first
// underscore becomes a separator so keys like refresh_timeout survive.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
