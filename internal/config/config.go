// Package config loads the translator configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pricofy/document-translator/internal/chunker"
	"github.com/pricofy/document-translator/internal/langbly"
)

// Translator backends.
const (
	BackendLangbly = "langbly"
	BackendLambda  = "lambda"
)

// Config holds all configuration for the document translator.
type Config struct {
	Environment string
	LogLevel    string
	Backend     string
	Langbly     LangblyConfig
	Lambda      LambdaConfig
	Batch       BatchConfig
	// RequestTimeout bounds a single translator call.
	RequestTimeout time.Duration
	// Concurrency is the number of job items translated at once.
	Concurrency int
}

// LangblyConfig holds Langbly API configuration.
type LangblyConfig struct {
	APIKey string
	APIURL string
}

// LambdaConfig holds translator Lambda configuration.
type LambdaConfig struct {
	FunctionName string
}

// BatchConfig holds per-request limits of the translation service.
type BatchConfig struct {
	MaxSize  int
	MaxChars int
}

// Limits converts the batch config for the chunker.
func (b BatchConfig) Limits() chunker.Limits {
	return chunker.Limits{MaxUnits: b.MaxSize, MaxChars: b.MaxChars}
}

var defaults = map[string]interface{}{
	"ENVIRONMENT":         "dev",
	"LOG_LEVEL":           "info",
	"TRANSLATOR_BACKEND":  BackendLangbly,
	"LANGBLY_API_KEY":     "",
	"LANGBLY_API_URL":     langbly.DefaultAPIURL,
	"TRANSLATOR_FUNCTION": "",
	"MAX_BATCH_SIZE":      chunker.DefaultMaxBatchSize,
	"MAX_BATCH_CHARS":     chunker.DefaultMaxBatchChars,
	"REQUEST_TIMEOUT":     "30s",
	"JOB_CONCURRENCY":     4,
}

// Load reads configuration from environment variables over the defaults.
// It does not validate; call Validate once all overrides are applied.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	return &Config{
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Backend:     v.GetString("TRANSLATOR_BACKEND"),
		Langbly: LangblyConfig{
			APIKey: v.GetString("LANGBLY_API_KEY"),
			APIURL: v.GetString("LANGBLY_API_URL"),
		},
		Lambda: LambdaConfig{
			FunctionName: v.GetString("TRANSLATOR_FUNCTION"),
		},
		Batch: BatchConfig{
			MaxSize:  v.GetInt("MAX_BATCH_SIZE"),
			MaxChars: v.GetInt("MAX_BATCH_CHARS"),
		},
		RequestTimeout: timeout,
		Concurrency:    v.GetInt("JOB_CONCURRENCY"),
	}, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendLangbly:
		if c.Langbly.APIKey == "" {
			errs = append(errs, errors.New("LANGBLY_API_KEY is required for the langbly backend"))
		}
	case BackendLambda:
		if c.Lambda.FunctionName == "" {
			errs = append(errs, errors.New("TRANSLATOR_FUNCTION is required for the lambda backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TRANSLATOR_BACKEND %q", c.Backend))
	}

	if c.Batch.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BATCH_SIZE must be positive, got %d", c.Batch.MaxSize))
	}
	if c.Batch.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BATCH_CHARS must be positive, got %d", c.Batch.MaxChars))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("JOB_CONCURRENCY must be positive, got %d", c.Concurrency))
	}

	return errors.Join(errs...)
}
