// Package observability builds the zap loggers shared by the rules engine
// binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/swse/internal/config"
)

// presets maps logging.format to the zap baseline it starts from.
var presets = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds the root logger for binary. Every entry carries a
// "binary" field so rulesd and migrate output can share one sink.
//
// Precondition: cfg.Level parses as a zap level; cfg.Format is "json" or
// "console".
func NewLogger(cfg config.LoggingConfig, binary string) (*zap.Logger, error) {
	preset, ok := presets[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("observability: unknown log format %q", cfg.Format)
	}
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("observability: log level %q: %w", cfg.Level, err)
	}

	zc := preset()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if binary != "" {
		zc.InitialFields = map[string]any{"binary": binary}
	}
	return zc.Build()
}

// Component returns a child logger tagged with the collaborator boundary it
// serves (compendium, storage, rpc, scripting).
//
// Postcondition: a nil logger yields a no-op logger.
func Component(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(name).With(zap.String("component", name))
}
