package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrFetch             = errors.New("fetch failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrStorage           = errors.New("storage error")
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
)

// Kind labels used when reporting and recording outcomes.
const (
	KindUnresolvable = "unresolvable"
	KindFetch        = "fetch"
	KindMalformed    = "malformed"
	KindStorage      = "storage"
	KindConfig       = "config"
	KindCanceled     = "canceled"
	KindFailed       = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrFetch
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the outcome label recorded in history and logs.
// Malformed responses are reported separately but count as fetch failures
// for batch purposes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrNotFound):
		return KindUnresolvable
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return KindConfig
	default:
		return KindFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
