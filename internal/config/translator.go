package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/invoker"
	"github.com/pricofy/document-translator/internal/langbly"
	"github.com/pricofy/document-translator/internal/translator"
)

// NewTranslator builds the translator for the configured backend.
func NewTranslator(ctx context.Context, cfg *Config, logger *zap.Logger) (translator.Translator, error) {
	switch cfg.Backend {
	case BackendLangbly:
		return langbly.NewClient(langbly.Config{
			APIKey:  cfg.Langbly.APIKey,
			APIURL:  cfg.Langbly.APIURL,
			Timeout: cfg.RequestTimeout,
		}, logger), nil
	case BackendLambda:
		return invoker.New(ctx, cfg.Lambda.FunctionName, logger)
	default:
		return nil, fmt.Errorf("unknown TRANSLATOR_BACKEND %q", cfg.Backend)
	}
}
