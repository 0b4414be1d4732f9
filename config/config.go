/*
Package config loads the holiday service configuration from YAML.

EXAMPLE (holidays.yml):
  listen_port: 8080
  db_path: ./holidays.db
  default_locale: es_CL
  translations_dir: ./translations
  log_level: info
  stop_grace_period: 30
  cache_holidays: true
  warm_interval: 60
  warm_locales: [es_CL, en]
  allowed_origins:
    - http://localhost:5173

All keys are optional; missing keys keep the values of Default().
Command-line flags override the file (see cmd/holidays).
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/logging"
)

type Config struct {
	ListenPort      int      `yaml:"listen_port"`
	DBPath          string   `yaml:"db_path"`
	DefaultLocale   string   `yaml:"default_locale"`
	TranslationsDir string   `yaml:"translations_dir"`
	LogLevel        string   `yaml:"log_level"`
	Development     bool     `yaml:"development"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	CacheHolidays   bool     `yaml:"cache_holidays"`

	// Minutes between cache warm passes; 0 disables the warmer.
	WarmInterval int      `yaml:"warm_interval"`
	WarmLocales  []string `yaml:"warm_locales"`

	// Seconds to wait for in-flight requests on shutdown.
	StopGracePeriod int `yaml:"stop_grace_period"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenPort:      8080,
		DBPath:          "holidays.db",
		DefaultLocale:   generic.DefaultLocale,
		LogLevel:        "info",
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		CacheHolidays:   true,
		WarmInterval:    60,
		StopGracePeriod: 30,
	}
}

// Parse decodes YAML over Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return Parse(data)
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return &generic.InvalidArgumentError{Field: "listen_port", Value: fmt.Sprint(c.ListenPort)}
	}
	if c.DBPath == "" {
		return &generic.InvalidArgumentError{Field: "db_path", Value: c.DBPath}
	}
	if c.WarmInterval < 0 {
		return &generic.InvalidArgumentError{Field: "warm_interval", Value: fmt.Sprint(c.WarmInterval)}
	}
	if c.StopGracePeriod < 0 {
		return &generic.InvalidArgumentError{Field: "stop_grace_period", Value: fmt.Sprint(c.StopGracePeriod)}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &generic.InvalidArgumentError{Field: "log_level", Value: c.LogLevel, Err: err}
	}
	return nil
}

// GracePeriod is StopGracePeriod as a duration.
func (c Config) GracePeriod() time.Duration {
	return time.Duration(c.StopGracePeriod) * time.Second
}
