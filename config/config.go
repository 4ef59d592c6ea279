package config

import (
	"time"

	"github.com/djetools/extractor/logger"
)

// Default configuration values.
const (
	defaultConcurrency   = 4
	defaultFetchTimeout  = 15 * time.Second
	defaultFetchRetries  = 3
	defaultFetchRPS      = 2
	defaultMinConfidence = 0.0
)

// Config holds all configuration for the extraction engine.
type Config struct {
	Logging    logger.Config    `yaml:"logging"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Processing ProcessingConfig `yaml:"processing"`
}

// ExtractionConfig configures the trigger phrases and filters.
type ExtractionConfig struct {
	// TriggerPhrases are the domain trigger terms scanned for on each page,
	// matched case- and accent-insensitively.
	TriggerPhrases []string `env:"EXTRACTOR_TRIGGER_PHRASES" yaml:"trigger_phrases"`
	// InstitutionalKeywords mark author candidates as institutions to be
	// filtered out.
	InstitutionalKeywords []string `yaml:"institutional_keywords"`
	// MinConfidence tags records below this score for downstream triage.
	// Low confidence is not an error; the record is still emitted.
	MinConfidence float64 `yaml:"min_confidence"`
}

// ProcessingConfig configures concurrency and the page source boundary.
type ProcessingConfig struct {
	// Concurrency is the number of documents processed in parallel.
	Concurrency int `env:"EXTRACTOR_CONCURRENCY" yaml:"concurrency"`
	// FetchTimeout bounds a single page source fetch.
	FetchTimeout time.Duration `env:"EXTRACTOR_FETCH_TIMEOUT" yaml:"fetch_timeout"`
	// FetchRetries is the attempt budget per fetch before the occurrence
	// degrades to unresolvable.
	FetchRetries int `yaml:"fetch_retries"`
	// FetchRPS rate-limits page source fetches.
	FetchRPS int `yaml:"fetch_rps"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	if len(c.Extraction.TriggerPhrases) == 0 {
		c.Extraction.TriggerPhrases = DefaultTriggerPhrases()
	}
	if c.Extraction.MinConfidence == 0 {
		c.Extraction.MinConfidence = defaultMinConfidence
	}
	if c.Processing.Concurrency <= 0 {
		c.Processing.Concurrency = defaultConcurrency
	}
	if c.Processing.FetchTimeout <= 0 {
		c.Processing.FetchTimeout = defaultFetchTimeout
	}
	if c.Processing.FetchRetries <= 0 {
		c.Processing.FetchRetries = defaultFetchRetries
	}
	if c.Processing.FetchRPS <= 0 {
		c.Processing.FetchRPS = defaultFetchRPS
	}
}

// DefaultTriggerPhrases returns the built-in trigger terms: the literal
// acronym and the long-form paraphrase of a small-value requisition.
func DefaultTriggerPhrases() []string {
	return []string{
		"RPV",
		"pagamento de requisitório de pequeno valor",
	}
}
