// Package invoker translates batches by invoking a translator Lambda function.
package invoker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/pricofy/document-translator/internal/domain"
	"github.com/pricofy/document-translator/internal/translator"
)

// InvokeAPI is the subset of the Lambda client used by Invoker.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Invoker sends each batch to a translator Lambda synchronously.
type Invoker struct {
	client       InvokeAPI
	functionName string
	logger       *zap.Logger
}

// New creates an Invoker from the default AWS configuration.
func New(ctx context.Context, functionName string, logger *zap.Logger) (*Invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(lambda.NewFromConfig(cfg), functionName, logger), nil
}

// NewWithClient creates an Invoker around an existing client.
func NewWithClient(client InvokeAPI, functionName string, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		client:       client,
		functionName: functionName,
		logger:       logger,
	}
}

// Translate invokes the translator function with one batch of texts.
func (i *Invoker) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	payload, err := json.Marshal(domain.TranslatorRequest{
		Texts:      texts,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(i.functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, classify(i.functionName, err)
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return nil, translator.Errorf("lambda error in %s: %s", i.functionName, aws.ToString(result.FunctionError))
	}

	var resp domain.TranslatorResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", translator.ErrMalformedResponse, i.functionName, err)
	}

	if resp.Error != "" {
		return nil, translator.Errorf("translator error: %s", resp.Error)
	}

	i.logger.Debug("translator invoked",
		zap.String("function", i.functionName),
		zap.Int("texts", len(texts)),
		zap.Int("translations", len(resp.Translations)),
	)

	return resp.Translations, nil
}

// classify keeps the AWS error code in the diagnostic.
func classify(functionName string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return translator.Wrap(err, fmt.Sprintf("failed to invoke %s (%s)", functionName, apiErr.ErrorCode()))
	}
	return translator.Wrap(err, fmt.Sprintf("failed to invoke %s", functionName))
}
