package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/swse/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: format}, "rulesd")
		require.NoError(t, err, format)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel), format)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestNewLogger_Rejects(t *testing.T) {
	cases := []config.LoggingConfig{
		{Level: "trace", Format: "json"},
		{Level: "info", Format: "xml"},
		{Level: "", Format: ""},
	}
	for _, cfg := range cases {
		_, err := NewLogger(cfg, "migrate")
		assert.Error(t, err, "%+v", cfg)
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := Component(zap.New(core), "compendium")
	logger.Warn("pack missing")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "compendium", entries[0].LoggerName)
	assert.Equal(t, "compendium", entries[0].ContextMap()["component"])
}

func TestComponent_NilLoggerIsNop(t *testing.T) {
	logger := Component(nil, "storage")
	require.NotNil(t, logger)
	logger.Warn("ignored")
}
