package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "output", cfg.Data.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 20, cfg.Enrich.BatchSize)
	assert.Equal(t, 5, cfg.Enrich.Concurrency)
	assert.Equal(t, 3, cfg.Enrich.MaxRetries)
	assert.Equal(t, 100, cfg.Embed.BatchSize)
	assert.Equal(t, "file", cfg.Checkpoint.Backend)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	chTempDir(t)
	t.Setenv("NAMES_LOG_LEVEL", "debug")
	t.Setenv("NAMES_ANTHROPIC_KEY", "sk-test")
	t.Setenv("NAMES_ENRICH_BATCH_SIZE", "10")
	t.Setenv("NAMES_CHECKPOINT_BACKEND", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, 10, cfg.Enrich.BatchSize)
	assert.Equal(t, "sqlite", cfg.Checkpoint.Backend)
}

func TestLoadConfigFile(t *testing.T) {
	chTempDir(t)

	content := "data:\n  dir: /srv/names/data\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile("config.yaml", []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/names/data", cfg.Data.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "output", cfg.Data.OutputDir)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	chTempDir(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("data: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "console"}))
}

func TestLoadUsesCurrentDirOnly(t *testing.T) {
	chTempDir(t)
	sub := filepath.Join(".", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "config.yaml"), []byte("log:\n  level: error\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}
