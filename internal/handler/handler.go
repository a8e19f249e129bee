// Package handler provides the Lambda handler for the document translator.
package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/domain"
	"github.com/pricofy/document-translator/internal/job"
)

// Handler translates the items of a job request.
type Handler struct {
	runner *job.Runner
	logger *zap.Logger
}

// New creates a Handler.
func New(runner *job.Runner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runner: runner, logger: logger}
}

// Handle processes a translation request.
// Request problems are reported in Response.Error; item failures are
// reported on their own item and never fail the request.
func (h *Handler) Handle(ctx context.Context, req domain.Request) (*domain.Response, error) {
	// Validate request
	if err := validateRequest(req); err != nil {
		return &domain.Response{Error: err.Error()}, nil
	}

	// Empty input - return immediately
	if len(req.Items) == 0 {
		return &domain.Response{Items: []domain.ItemResponse{}}, nil
	}

	items := make([]job.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = job.Item{ID: item.ID, Document: item.Data}
	}

	results := h.runner.Run(ctx, job.Job{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Items:      items,
	})

	resp := &domain.Response{Items: make([]domain.ItemResponse, 0, len(results))}
	for _, res := range results {
		if res.Status == job.StatusFailed {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Items = append(resp.Items, domain.ItemResponse{
			ID:       res.ID,
			Status:   res.Status,
			Data:     res.Document,
			Batches:  res.Batches,
			Messages: res.Messages,
		})
	}

	h.logger.Info("job submitted",
		zap.String("sourceLang", req.SourceLang),
		zap.String("targetLang", req.TargetLang),
		zap.Int("items", len(results)),
		zap.Int("failed", resp.Failed),
	)

	return resp, nil
}

// validateRequest checks the request is valid.
func validateRequest(req domain.Request) error {
	if req.SourceLang == "" {
		return fmt.Errorf("sourceLang is required")
	}
	if req.TargetLang == "" {
		return fmt.Errorf("targetLang is required")
	}
	if req.SourceLang == req.TargetLang {
		return fmt.Errorf("sourceLang and targetLang must be different")
	}
	if req.Items == nil {
		return fmt.Errorf("items is required")
	}

	seen := make(map[string]bool, len(req.Items))
	for i, item := range req.Items {
		if item.Data == nil {
			return fmt.Errorf("items[%d].data is required", i)
		}
		if item.ID == "" {
			continue
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}
