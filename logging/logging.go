/*
Package logging builds the zap loggers used by the server and the CLI.

PURPOSE:
  One place that turns a level name ("debug", "info", ...) into a
  configured *zap.Logger. Loggers are passed explicitly; nothing here
  replaces zap's globals.

USAGE:
  logger, err := logging.New("info", false)
  if err != nil {
      return err
  }
  defer logger.Sync()

SEE ALSO:
  - api/server.go: Access log middleware
  - config/config.go: log_level setting
*/
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New builds a logger at level. development switches to the console
// encoder with stack traces on warnings.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *zap.Logger { return zap.NewNop() }
