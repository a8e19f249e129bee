// Package main is the entry point for the document translator Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/config"
	"github.com/pricofy/document-translator/internal/domain"
	"github.com/pricofy/document-translator/internal/handler"
	"github.com/pricofy/document-translator/internal/job"
	"github.com/pricofy/document-translator/internal/logging"
	"github.com/pricofy/document-translator/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	tr, err := config.NewTranslator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create translator", zap.Error(err))
	}

	p := pipeline.New(tr,
		pipeline.WithLimits(cfg.Batch.Limits()),
		pipeline.WithTimeout(cfg.RequestTimeout),
		pipeline.WithLogger(logger),
	)
	h := handler.New(job.NewRunner(p, cfg.Concurrency, logger), logger)
	w := newWarmer(logger)

	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		return handleRequest(ctx, h, w, event)
	})
}

func handleRequest(ctx context.Context, h *handler.Handler, w *warmer, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return w.Handle(ctx, warmup)
	}

	// Parse the request and delegate to the handler
	var req domain.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return &domain.Response{Error: "invalid request: " + err.Error()}, nil
	}

	return h.Handle(ctx, req)
}
