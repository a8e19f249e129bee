// Package job translates every item of a job, one pipeline run per item.
//
// Items are independent: a failed item is reported on its own result and
// never stops its siblings. Retrying a failed item is the caller's decision.
package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricofy/document-translator/internal/document"
	"github.com/pricofy/document-translator/internal/domain"
	"github.com/pricofy/document-translator/internal/pipeline"
)

// DefaultConcurrency is the number of items translated at once.
const DefaultConcurrency = 4

// Item statuses.
const (
	StatusTranslated = "translated"
	StatusEmpty      = "empty"
	StatusFailed     = "failed"
)

// Item is one document of a job.
type Item struct {
	ID       string
	Document *document.Internal
}

// Job is a set of items sharing one language pair.
type Job struct {
	SourceLang string
	TargetLang string
	Items      []Item
}

// Result is the outcome of one item. Err is set only when Status is StatusFailed.
type Result struct {
	ID       string
	Status   string
	Document *document.Internal
	Batches  int
	Messages []domain.Message
	Err      error
}

// Runner drives a pipeline over the items of a job.
type Runner struct {
	pipeline    *pipeline.Pipeline
	concurrency int
	logger      *zap.Logger
}

// NewRunner creates a Runner. Non-positive concurrency uses DefaultConcurrency.
func NewRunner(p *pipeline.Pipeline, concurrency int, logger *zap.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{pipeline: p, concurrency: concurrency, logger: logger}
}

// Run translates all items and returns their results in item order.
// Items without an ID get a generated one.
func (r *Runner) Run(ctx context.Context, j Job) []Result {
	results := make([]Result, len(j.Items))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, item := range j.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		g.Go(func() error {
			results[i] = r.runItem(ctx, j, item)
			return nil
		})
	}
	_ = g.Wait() // items never return errors; failures live on their Result

	return results
}

func (r *Runner) runItem(ctx context.Context, j Job, item Item) Result {
	log := r.logger.With(zap.String("item", item.ID))

	outcome, err := r.pipeline.Run(ctx, item.Document, j.SourceLang, j.TargetLang)
	if err != nil {
		log.Error("translation failed for job item", zap.Error(err))
		return Result{
			ID:     item.ID,
			Status: StatusFailed,
			Messages: []domain.Message{{
				Severity: domain.SeverityError,
				Text:     fmt.Sprintf("Translation failed: %v", err),
			}},
			Err: err,
		}
	}

	if outcome.Status == pipeline.StatusEmpty {
		log.Info("no translatable content")
		return Result{
			ID:       item.ID,
			Status:   StatusEmpty,
			Document: outcome.Document,
			Messages: []domain.Message{{
				Severity: domain.SeverityWarning,
				Text:     "No translatable content found.",
			}},
		}
	}

	log.Info("job item translated", zap.Int("units", outcome.Units), zap.Int("batches", outcome.Batches))
	return Result{
		ID:       item.ID,
		Status:   StatusTranslated,
		Document: outcome.Document,
		Batches:  outcome.Batches,
	}
}
