package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/document-translator/internal/chunker"
	"github.com/pricofy/document-translator/internal/document"
	"github.com/pricofy/document-translator/internal/translator"
)

// recorder is a fake Translator that records every call.
type recorder struct {
	mu      sync.Mutex
	calls   [][]string
	langs   [][2]string
	respond func(call int, texts []string) ([]string, error)
}

func (r *recorder) Translate(_ context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	r.mu.Lock()
	call := len(r.calls)
	r.calls = append(r.calls, append([]string(nil), texts...))
	r.langs = append(r.langs, [2]string{sourceLang, targetLang})
	r.mu.Unlock()

	if r.respond != nil {
		return r.respond(call, texts)
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = strings.ToUpper(text)
	}
	return out, nil
}

func docWith(texts ...string) *document.Internal {
	doc := document.New()
	for i, text := range texts {
		doc.Set(string(rune('a'+i)), &document.TranslatableLeaf{Text: text})
	}
	return doc
}

func TestRun_Scenario(t *testing.T) {
	doc := document.New()
	doc.Set("title", &document.TranslatableLeaf{Text: "Hello"})
	doc.Set("meta", &document.OpaqueLeaf{Text: "x"})

	rec := &recorder{respond: func(int, []string) ([]string, error) {
		return []string{"Bonjour"}, nil
	}}

	outcome, err := New(rec).Run(context.Background(), doc, "en", "fr")
	require.NoError(t, err)

	assert.Equal(t, StatusTranslated, outcome.Status)
	assert.Equal(t, 1, outcome.Units)
	assert.Equal(t, 1, outcome.Batches)
	assert.Equal(t, [][]string{{"Hello"}}, rec.calls)
	assert.Equal(t, [][2]string{{"en", "fr"}}, rec.langs)
	assert.Equal(t, map[string]string{"title": "Bonjour"}, document.Leaves(outcome.Document))
	_, hasMeta := outcome.Document.Get("meta")
	assert.False(t, hasMeta)
}

func TestRun_EmptyContent(t *testing.T) {
	doc := document.New()
	doc.Set("meta", &document.OpaqueLeaf{Text: "x"})
	rec := &recorder{}

	outcome, err := New(rec).Run(context.Background(), doc, "en", "fr")
	require.NoError(t, err)

	assert.Equal(t, StatusEmpty, outcome.Status)
	assert.Equal(t, 0, outcome.Document.Len())
	assert.Empty(t, rec.calls)
}

func TestRun_OrderAcrossBatches(t *testing.T) {
	rec := &recorder{}
	p := New(rec, WithLimits(chunker.Limits{MaxUnits: 2, MaxChars: 100}))

	outcome, err := p.Run(context.Background(), docWith("a", "b", "c"), "en", "de")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, rec.calls)
	assert.Equal(t, 2, outcome.Batches)
	assert.Equal(t, []string{"a", "b", "c"}, outcome.Document.Keys())
	assert.Equal(t, map[string]string{"a": "A", "b": "B", "c": "C"}, document.Leaves(outcome.Document))
}

func TestRun_AllOrNothing(t *testing.T) {
	boom := translator.Errorf("Langbly API error: quota exceeded")
	rec := &recorder{respond: func(call int, texts []string) ([]string, error) {
		if call == 1 {
			return nil, boom
		}
		return texts, nil
	}}
	p := New(rec, WithLimits(chunker.Limits{MaxUnits: 1}))

	outcome, err := p.Run(context.Background(), docWith("one", "two", "three"), "en", "fr")

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Len(t, rec.calls, 2, "third batch must not be attempted")

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StateTranslating, perr.State)
	assert.Equal(t, 2, perr.Batch)
	assert.ErrorIs(t, err, translator.ErrService)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRun_InvalidResults(t *testing.T) {
	tests := []struct {
		name    string
		respond func(int, []string) ([]string, error)
		target  error
	}{
		{
			name:    "empty result",
			respond: func(int, []string) ([]string, error) { return nil, nil },
			target:  translator.ErrEmptyResult,
		},
		{
			name:    "count mismatch",
			respond: func(int, []string) ([]string, error) { return []string{"only one"}, nil },
			target:  translator.ErrCountMismatch,
		},
		{
			name: "malformed response",
			respond: func(int, []string) ([]string, error) {
				return nil, translator.ErrMalformedResponse
			},
			target: translator.ErrMalformedResponse,
		},
		{
			name:    "plain error",
			respond: func(int, []string) ([]string, error) { return nil, errors.New("connection reset") },
			target:  translator.ErrService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{respond: tt.respond}

			outcome, err := New(rec).Run(context.Background(), docWith("x", "y"), "en", "fr")

			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRun_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	blocking := translator.Func(func(_ context.Context, texts []string, _, _ string) ([]string, error) {
		<-release // ignores ctx on purpose
		return texts, nil
	})
	p := New(blocking, WithTimeout(20*time.Millisecond))

	start := time.Now()
	outcome, err := p.Run(context.Background(), docWith("slow"), "en", "fr")

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, translator.ErrService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_AmbiguousKey(t *testing.T) {
	doc := document.New()
	doc.Set("a|b", &document.TranslatableLeaf{Text: "x"})
	rec := &recorder{}

	_, err := New(rec).Run(context.Background(), doc, "en", "fr")

	require.ErrorIs(t, err, document.ErrAmbiguousKeyPath)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StateExtracting, perr.State)
	assert.Empty(t, rec.calls)
}

func TestRun_OversizeUnit(t *testing.T) {
	rec := &recorder{}
	big := strings.Repeat("x", 12000)

	outcome, err := New(rec).Run(context.Background(), docWith("small", big, "tail"), "en", "fr")
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Batches)
	require.Len(t, rec.calls, 3)
	assert.Equal(t, []string{big}, rec.calls[1])
}

func TestError_Message(t *testing.T) {
	err := &Error{State: StateTranslating, Batch: 3, Err: errors.New("boom")}
	assert.Equal(t, "translating batch 3: boom", err.Error())

	err = &Error{State: StateExtracting, Err: errors.New("bad key")}
	assert.Equal(t, "extracting: bad key", err.Error())
}
