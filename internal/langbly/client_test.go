package langbly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/document-translator/internal/translator"
)

func TestTranslate(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/language/translate/v2", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"Bonjour"},{"translatedText":"Monde"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", APIURL: srv.URL + "/"}, nil)
	out, err := c.Translate(context.Background(), []string{"Hello", "World"}, "en", "fr")

	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour", "Monde"}, out)
	assert.Equal(t, request{Q: []string{"Hello", "World"}, Source: "en", Target: "fr", Format: "html"}, got)
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		target   error
		contains string
	}{
		{
			name:     "api error message",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Invalid API key"}}`,
			target:   translator.ErrService,
			contains: "Invalid API key",
		},
		{
			name:     "status line fallback",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			target:   translator.ErrService,
			contains: "502 Bad Gateway",
		},
		{
			name:     "invalid json",
			status:   http.StatusOK,
			body:     `not json`,
			target:   translator.ErrService,
			contains: "Invalid JSON response",
		},
		{
			name:     "empty translations",
			status:   http.StatusOK,
			body:     `{"data":{"translations":[]}}`,
			target:   translator.ErrEmptyResult,
			contains: "empty translations",
		},
		{
			name:     "missing translatedText",
			status:   http.StatusOK,
			body:     `{"data":{"translations":[{"detectedSourceLanguage":"en"}]}}`,
			target:   translator.ErrMalformedResponse,
			contains: "translation 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "secret", APIURL: srv.URL}, nil)
			out, err := c.Translate(context.Background(), []string{"Hello"}, "en", "fr")

			assert.Nil(t, out)
			require.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestTranslate_MissingAPIKey(t *testing.T) {
	c := NewClient(Config{}, nil)

	_, err := c.Translate(context.Background(), []string{"Hello"}, "en", "fr")
	require.ErrorIs(t, err, translator.ErrService)
	assert.Contains(t, err.Error(), "API key is not configured")
}

func TestTranslate_EmptyInput(t *testing.T) {
	c := NewClient(Config{APIKey: "secret", APIURL: "http://127.0.0.1:1"}, nil)

	out, err := c.Translate(context.Background(), []string{}, "en", "fr")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTranslate_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	c := NewClient(Config{APIKey: "secret", APIURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := c.Translate(context.Background(), []string{"Hello"}, "en", "fr")

	require.ErrorIs(t, err, translator.ErrService)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, DefaultAPIURL, c.apiURL)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}
