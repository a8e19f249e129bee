// Package langbly implements the Langbly v2 translation API as a translator.Translator.
package langbly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/translator"
)

const (
	// DefaultAPIURL is the public Langbly endpoint.
	DefaultAPIURL = "https://api.langbly.com"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	translatePath = "/language/translate/v2"
	userAgent     = "langbly-go/1.0.0"
)

// Config holds Langbly connection settings.
type Config struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

// Client calls the Langbly translate endpoint.
type Client struct {
	apiKey string
	apiURL string
	client *http.Client
	logger *zap.Logger
}

// request is the JSON body of a translate call.
type request struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

// response is the JSON body of a successful translate call.
type response struct {
	Data struct {
		Translations []struct {
			TranslatedText *string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new Langbly client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey: cfg.APIKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Translate translates texts from sourceLang to targetLang as HTML.
func (c *Client) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if c.apiKey == "" {
		return nil, translator.Errorf("Langbly API key is not configured")
	}
	if len(texts) == 0 {
		return []string{}, nil
	}

	bodyBytes, err := json.Marshal(request{
		Q:      texts,
		Source: sourceLang,
		Target: targetLang,
		Format: "html",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+translatePath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, translator.Wrap(err, "Langbly API error")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, translator.Wrap(err, "failed to read Langbly response")
	}

	c.logger.Debug("langbly request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("texts", len(texts)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, translator.Errorf("Langbly API error: %s", errorMessage(resp, body))
	}

	var apiResp response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, translator.Errorf("Invalid JSON response from Langbly API")
	}

	if len(apiResp.Data.Translations) == 0 {
		return nil, translator.Wrap(translator.ErrEmptyResult, "Langbly API returned empty translations")
	}

	out := make([]string, len(apiResp.Data.Translations))
	for i, tr := range apiResp.Data.Translations {
		if tr.TranslatedText == nil {
			return nil, fmt.Errorf("%w: translation %d has no translatedText", translator.ErrMalformedResponse, i)
		}
		out[i] = *tr.TranslatedText
	}

	return out, nil
}

// errorMessage prefers the API's own diagnostic over the status line.
func errorMessage(resp *http.Response, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return resp.Status
}
