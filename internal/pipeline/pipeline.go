// Package pipeline translates one document: it extracts translatable units,
// batches them, calls the translator once per batch in order and rebuilds a
// document from the results.
//
// A document is all-or-nothing. The first failed batch aborts the remaining
// batches and discards the translations already obtained, so a caller never
// receives a mixed-language document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/chunker"
	"github.com/pricofy/document-translator/internal/document"
	"github.com/pricofy/document-translator/internal/translator"
)

// DefaultTimeout bounds a single translator call.
const DefaultTimeout = 30 * time.Second

// State is a step of a document's translation.
type State string

const (
	StateExtracting   State = "extracting"
	StateBatching     State = "batching"
	StateTranslating  State = "translating"
	StateReassembling State = "reassembling"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Status is the successful outcome kind.
type Status string

const (
	// StatusTranslated means every translatable leaf was translated.
	StatusTranslated Status = "translated"
	// StatusEmpty means the document had no translatable content.
	StatusEmpty Status = "empty"
)

// Outcome is the result of a successful run.
type Outcome struct {
	Status   Status
	Document *document.Internal
	Units    int
	Batches  int
}

// Error is a document-level failure.
type Error struct {
	State State
	// Batch is the 1-based index of the failed batch, 0 outside translation.
	Batch int
	Err   error
}

func (e *Error) Error() string {
	if e.Batch > 0 {
		return fmt.Sprintf("%s batch %d: %v", e.State, e.Batch, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pipeline runs documents through a Translator. It holds no per-document
// state and is safe for concurrent use when its Translator is.
type Pipeline struct {
	translator translator.Translator
	limits     chunker.Limits
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLimits overrides the batch limits.
func WithLimits(limits chunker.Limits) Option {
	return func(p *Pipeline) {
		p.limits = limits
	}
}

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline.
func New(t translator.Translator, opts ...Option) *Pipeline {
	p := &Pipeline{
		translator: t,
		limits:     chunker.DefaultLimits(),
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run translates doc from sourceLang to targetLang. Language codes are
// passed through unchanged.
func (p *Pipeline) Run(ctx context.Context, doc *document.Internal, sourceLang, targetLang string) (*Outcome, error) {
	units, err := document.Extract(doc)
	if err != nil {
		return nil, &Error{State: StateExtracting, Err: err}
	}
	if len(units) == 0 {
		p.logger.Debug("no translatable content")
		return &Outcome{Status: StatusEmpty, Document: document.New()}, nil
	}

	batches := chunker.ByLimits(units, p.limits)
	p.logger.Debug("document batched", zap.Int("units", len(units)), zap.Int("batches", len(batches)))

	// Flat, aligned 1:1 with units
	translations := make([]string, 0, len(units))
	for i, batch := range batches {
		out, err := p.translateBatch(ctx, batch, sourceLang, targetLang)
		if err != nil {
			p.logger.Warn("batch failed, aborting document",
				zap.Int("batch", i+1),
				zap.Int("batches", len(batches)),
				zap.Error(err),
			)
			return nil, &Error{State: StateTranslating, Batch: i + 1, Err: err}
		}
		p.logger.Debug("batch translated",
			zap.Int("batch", i+1),
			zap.Int("units", len(batch.Units)),
			zap.Int("chars", batch.CharCount),
		)
		translations = append(translations, out...)
	}

	results := make([]document.Result, len(units))
	for i, unit := range units {
		results[i] = document.Result{Path: unit.Path, TranslatedText: translations[i]}
	}

	rebuilt, err := document.Reassemble(results)
	if err != nil {
		return nil, &Error{State: StateReassembling, Err: err}
	}

	return &Outcome{
		Status:   StatusTranslated,
		Document: rebuilt,
		Units:    len(units),
		Batches:  len(batches),
	}, nil
}

// translateBatch makes one bounded call and checks the result shape.
func (p *Pipeline) translateBatch(ctx context.Context, batch chunker.Batch, sourceLang, targetLang string) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	texts := batch.Texts()

	// A translator that ignores ctx must not block the document past the timeout.
	type reply struct {
		out []string
		err error
	}
	replies := make(chan reply, 1)
	go func() {
		out, err := p.translator.Translate(callCtx, texts, sourceLang, targetLang)
		replies <- reply{out: out, err: err}
	}()

	var out []string
	var err error
	select {
	case r := <-replies:
		out, err = r.out, r.err
	case <-callCtx.Done():
		err = callCtx.Err()
	}

	if err != nil {
		if errors.Is(err, translator.ErrService) || errors.Is(err, translator.ErrMalformedResponse) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, translator.Wrap(err, fmt.Sprintf("timed out after %s", p.timeout))
		}
		return nil, translator.Wrap(err, "")
	}
	if len(out) == 0 {
		return nil, translator.Wrap(translator.ErrEmptyResult, "")
	}
	if len(out) != len(texts) {
		return nil, translator.Wrap(translator.ErrCountMismatch, fmt.Sprintf("expected %d, got %d", len(texts), len(out)))
	}
	return out, nil
}
