package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/invoker"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// warmer answers warmup events, optionally fanning out to more instances.
type warmer struct {
	logger       *zap.Logger
	functionName string
	delay        time.Duration
	newClient    func(ctx context.Context) (invoker.InvokeAPI, error)
}

func newWarmer(logger *zap.Logger) *warmer {
	return &warmer{
		logger:       logger,
		functionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		delay:        WarmupDelay,
		newClient: func(ctx context.Context) (invoker.InvokeAPI, error) {
			cfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load AWS config: %w", err)
			}
			return lambdasdk.NewFromConfig(cfg), nil
		},
	}
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *warmer) Handle(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.logger.Warn("warmup self-invoke failed", zap.Error(err))
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	// Brief delay to ensure instances overlap
	time.Sleep(w.delay)

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke invokes this Lambda function count times asynchronously.
func (w *warmer) selfInvoke(ctx context.Context, count int) error {
	client, err := w.newClient(ctx)
	if err != nil {
		return err
	}

	// Payload for child invocations (concurrency=0 to prevent infinite loop)
	payload, err := json.Marshal(WarmupEvent{
		Source:      WarmupSource,
		Concurrency: 0,
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})

			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
