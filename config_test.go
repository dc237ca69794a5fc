package uasig

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.False(t, cfg.MemoryMode)
	assert.Equal(t, time.Second, cfg.CacheServiceInterval)
	assert.Equal(t, []string{"User-Agent"}, cfg.OverrideUserAgentHeaders)
	assert.Equal(t, 4096, cfg.MatchCacheCapacity)
	assert.Equal(t, 30*time.Second, cfg.DrainTimeout)
}

func TestNewConfig_OptionsOverrideDefaults(t *testing.T) {
	cfg, err := NewConfig(
		WithBinaryFilePath("/tmp/data.bin"),
		WithMemoryMode(true),
		WithAutoUpdate(true),
		WithNodeEvaluationBudget(1000),
		WithMatchCacheCapacity(64),
		WithOverrideUserAgentHeaders("X-Device-UA", "User-Agent"),
	)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/data.bin", cfg.BinaryFilePath)
	assert.True(t, cfg.MemoryMode)
	assert.True(t, cfg.AutoUpdate)
	assert.Equal(t, 1000, cfg.NodeEvaluationBudget)
	assert.Equal(t, 64, cfg.MatchCacheCapacity)
	assert.Equal(t, []string{"X-Device-UA", "User-Agent"}, cfg.OverrideUserAgentHeaders)
}

func TestLoadConfigFromEnv_UnsetVarsKeepDefaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.CacheServiceInterval)
	assert.Equal(t, 4096, cfg.MatchCacheCapacity)
}

func TestLoadConfigFromEnv_ReadsOverrides(t *testing.T) {
	t.Setenv("UASIG_BINARY_FILE_PATH", "/data/uasig.bin")
	t.Setenv("UASIG_AUTO_UPDATE", "true")
	t.Setenv("UASIG_NODE_EVALUATION_BUDGET", "500")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/data/uasig.bin", cfg.BinaryFilePath)
	assert.True(t, cfg.AutoUpdate)
	assert.Equal(t, 500, cfg.NodeEvaluationBudget)
}

func TestLoadConfigFromEnv_WarnsOnUnknownKeys(t *testing.T) {
	t.Setenv("UASIG_NO_SUCH_OPTION", "1")
	t.Setenv("UASIG_MAX_READERS", "4") // recognised, must not be warned about

	var logged bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logged)
	defer log.SetOutput(prev)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err, "unknown keys are ignored, never fatal")

	assert.Equal(t, 4, cfg.MaxReaders)
	assert.Contains(t, logged.String(), "UASIG_NO_SUCH_OPTION")
	assert.NotContains(t, logged.String(), "UASIG_MAX_READERS")
}
