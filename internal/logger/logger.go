// Package logger builds the zap logger used by all commands.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
)

// level maps a configured level name to a zap level. The empty string means errors only, which
// keeps the interactive shell quiet.
func level(option string) (zapcore.Level, bool) {
	switch strings.ToLower(option) {
	case "", "error":
		return zapcore.ErrorLevel, true
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	default:
		return zapcore.ErrorLevel, false
	}
}

// New builds a logger from the configuration. Logs go to stderr unless a file is configured.
func New(options config.LoggingConfig) (*zap.Logger, error) {
	lvl, ok := level(options.Level)
	if !ok {
		return nil, fmt.Errorf("could not parse logger level %q", options.Level)
	}

	var cfg zap.Config
	switch strings.ToLower(options.Format) {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("could not parse logger format %q", options.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	output := "stderr"
	if options.File != "" && options.File != "-" {
		output = options.File
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
