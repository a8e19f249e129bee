// Package translator defines the boundary to a remote translation service.
package translator

import (
	"context"
	"errors"
	"fmt"
)

// Translator translates an ordered batch of strings. Implementations return
// exactly one translation per input, in the same order, or an error.
type Translator interface {
	Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)

// Translate calls f.
func (f Func) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	return f(ctx, texts, sourceLang, targetLang)
}

var (
	// ErrService matches every *ServiceError via errors.Is.
	ErrService = errors.New("translation service error")

	// ErrEmptyResult is wrapped when the service returns no translations.
	ErrEmptyResult = errors.New("empty translations")

	// ErrCountMismatch is wrapped when the service returns a different number of translations.
	ErrCountMismatch = errors.New("translation count mismatch")

	// ErrMalformedResponse is returned for decodable but structurally invalid responses.
	ErrMalformedResponse = errors.New("malformed translation response")
)

// ServiceError reports a failed, timed out or inconsistent remote call.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", ErrService, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrService, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrService, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrService) true for any ServiceError.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// Errorf builds a ServiceError with a formatted message.
func Errorf(format string, args ...any) *ServiceError {
	return &ServiceError{Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a ServiceError around err.
func Wrap(err error, message string) *ServiceError {
	return &ServiceError{Message: message, Err: err}
}
