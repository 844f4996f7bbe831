package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-signals-go/internal/logger"
	"context-signals-go/internal/tokenizer"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CONFIG_PATH", "PORT", "DICTIONARY_DIR", "TOKENIZER_BACKEND",
		"TOKENIZER_INIT_RETRIES", "BATCH_CONCURRENCY", "DATASET_PATH", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendKagome, cfg.Tokenizer.Backend)
	assert.Equal(t, 0.40, cfg.Analyzer.Weights.Urgency)
	assert.Equal(t, 4, cfg.Analyzer.BatchConcurrency)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "signals.yaml")
	data := `
server:
  port: "9000"
tokenizer:
  backend: fallback
  init_interval: 50ms
analyzer:
  weights: {urgency: 0.5, emotion: 0.3, certainty: 0.1, politeness: 0.1}
  batch_concurrency: 2
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("BATCH_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, BackendFallback, cfg.Tokenizer.Backend)
	assert.Equal(t, 50*time.Millisecond, cfg.Tokenizer.InitInterval)
	assert.Equal(t, 0.5, cfg.Analyzer.Weights.Urgency)
	assert.Equal(t, 8, cfg.Analyzer.BatchConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched sections keep their defaults
	assert.Equal(t, 0.25, cfg.Analyzer.Urgency.Thresholds.Medium)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	example, err := filepath.Abs("../../config.example.yaml")
	require.NoError(t, err)
	clearEnv(t)
	t.Setenv("CONFIG_PATH", example)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("TOKENIZER_INIT_RETRIES", "many")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("TOKENIZER_BACKEND", "mecab")
	_, err = Load()
	assert.ErrorContains(t, err, "mecab")

	clearEnv(t)
	t.Setenv("BATCH_CONCURRENCY", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "batch_concurrency")
}

func TestNewAnalyzerFallbackBackend(t *testing.T) {
	cfg := Default()
	cfg.Tokenizer.Backend = BackendFallback
	a, err := cfg.NewAnalyzer(logger.Discard())
	require.NoError(t, err)
	a.Init(t.Context())
	assert.Equal(t, tokenizer.StateUnavailable, a.TokenizerState())
}

func TestNewAnalyzerBadDictionaryDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "emotion.yaml"), []byte("entries: [oops"), 0o644))
	cfg := Default()
	cfg.Dictionary.Dir = dir
	_, err := cfg.NewAnalyzer(logger.Discard())
	assert.Error(t, err)
}
