package services

import "context"

type contextKey int

const (
	runIDKey contextKey = iota
	storyIDKey
	stageKey
	requestIDKey
)

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func valueFrom(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithRunID tags ctx with the batch run identifier. Blank ids leave ctx as is,
// as do the other With helpers.
func WithRunID(ctx context.Context, id string) context.Context {
	return withValue(ctx, runIDKey, id)
}

func RunIDFromContext(ctx context.Context) (string, bool) { return valueFrom(ctx, runIDKey) }

// WithStoryID tags ctx with the canonical story being processed.
func WithStoryID(ctx context.Context, id string) context.Context {
	return withValue(ctx, storyIDKey, id)
}

func StoryIDFromContext(ctx context.Context) (string, bool) { return valueFrom(ctx, storyIDKey) }

// WithStage tags ctx with the current step (resolve, assemble, record).
func WithStage(ctx context.Context, stage string) context.Context {
	return withValue(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) { return valueFrom(ctx, stageKey) }

// WithRequestID tags ctx with the per-reference correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) { return valueFrom(ctx, requestIDKey) }
