package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 60*time.Second, cfg.AITimeout())
	assert.Equal(t, 2, cfg.AIMaxAttempts)
	assert.Equal(t, 256, cfg.SessionCacheSize)
	assert.Equal(t, 1024, cfg.ViewportWidth)
	assert.Equal(t, "tmp/exports", cfg.ExportDir)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "SERVER_ADDRESS: \":9000\"\nAI_PROVIDER: openai\nSESSION_CACHE_SIZE: 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SESSION_CACHE_SIZE", "16")
	t.Setenv("EXPORT_S3_USE_SSL", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, 16, cfg.SessionCacheSize)
	assert.True(t, cfg.ExportS3UseSSL)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("AI_TIMEOUT_SECONDS", "0")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
