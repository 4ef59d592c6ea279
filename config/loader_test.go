package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultTriggerPhrases(), cfg.Extraction.TriggerPhrases)
	assert.Equal(t, defaultConcurrency, cfg.Processing.Concurrency)
	assert.Equal(t, defaultFetchTimeout, cfg.Processing.FetchTimeout)
	assert.Equal(t, defaultFetchRetries, cfg.Processing.FetchRetries)
	assert.Equal(t, defaultFetchRPS, cfg.Processing.FetchRPS)
}

func TestLoadYAMLValues(t *testing.T) {
	path := writeConfig(t, `
extraction:
  trigger_phrases:
    - precatório alimentar
  institutional_keywords:
    - FUNDAÇÃO
  min_confidence: 0.4
processing:
  concurrency: 8
  fetch_timeout: 5s
  fetch_retries: 2
  fetch_rps: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"precatório alimentar"}, cfg.Extraction.TriggerPhrases)
	assert.Equal(t, []string{"FUNDAÇÃO"}, cfg.Extraction.InstitutionalKeywords)
	assert.InDelta(t, 0.4, cfg.Extraction.MinConfidence, 1e-9)
	assert.Equal(t, 8, cfg.Processing.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Processing.FetchTimeout)
	assert.Equal(t, 2, cfg.Processing.FetchRetries)
	assert.Equal(t, 10, cfg.Processing.FetchRPS)
}

func TestEnvOverridesWin(t *testing.T) {
	path := writeConfig(t, `
processing:
  concurrency: 8
`)
	t.Setenv("EXTRACTOR_CONCURRENCY", "16")
	t.Setenv("EXTRACTOR_FETCH_TIMEOUT", "30s")
	t.Setenv("EXTRACTOR_TRIGGER_PHRASES", "rpv, alvará de levantamento")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Processing.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Processing.FetchTimeout)
	assert.Equal(t, []string{"rpv", "alvará de levantamento"}, cfg.Extraction.TriggerPhrases)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "processing: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultHonorsEnv(t *testing.T) {
	t.Setenv("EXTRACTOR_CONCURRENCY", "2")
	cfg := Default()
	assert.Equal(t, 2, cfg.Processing.Concurrency)
	assert.Equal(t, DefaultTriggerPhrases(), cfg.Extraction.TriggerPhrases)
}
