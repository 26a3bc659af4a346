// Package resolver maps user supplied references to canonical story ids.
//
// A reference may be a bare id, a story URL, or a chapter URL. The first run
// of decimal digits is taken as a candidate id and confirmed against the story
// endpoint. When the platform does not know it as a story the candidate is
// treated as a chapter id and its parent story is read from the chapter info
// record.
package resolver

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"storydl/internal/logging"
	"storydl/internal/services"
)

// StoryID is the canonical numeric identifier of a story.
type StoryID string

func (id StoryID) String() string { return string(id) }

// Platform is the subset of the platform API the resolver consults.
type Platform interface {
	StoryExists(ctx context.Context, id string) error
	ChapterStoryURL(ctx context.Context, chapterID string) (string, error)
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// Resolver turns references into story ids.
type Resolver struct {
	platform Platform
	logger   *slog.Logger
}

// New constructs a Resolver.
func New(platform Platform, logger *slog.Logger) *Resolver {
	return &Resolver{
		platform: platform,
		logger:   logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve returns the story id for reference. Failures are reported as
// services.ErrNotFound unless ctx was cancelled.
func (r *Resolver) Resolve(ctx context.Context, reference string) (StoryID, error) {
	candidate := FirstDigitRun(reference)
	if candidate == "" {
		return "", services.Wrap(services.ErrNotFound, "resolver", "extract id", "no digits in reference "+quote(reference), nil)
	}
	logger := r.logger.With(logging.String(logging.FieldReference, reference))

	storyErr := r.platform.StoryExists(ctx, candidate)
	if storyErr == nil {
		logger.Debug("reference resolved as story", logging.String(logging.FieldStoryID, candidate))
		return StoryID(candidate), nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger.Debug("story lookup failed; trying chapter",
		logging.String("candidate", candidate),
		logging.Error(storyErr),
	)

	storyURL, err := r.platform.ChapterStoryURL(ctx, candidate)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", services.Wrap(services.ErrNotFound, "resolver", "chapter info", "id "+candidate+" is neither a story nor a chapter", err)
	}
	parent := FirstDigitRun(storyURL)
	if parent == "" {
		return "", services.Wrap(services.ErrNotFound, "resolver", "chapter info", "story url "+quote(storyURL)+" has no id", nil)
	}
	logger.Debug("reference resolved through chapter",
		logging.String(logging.FieldChapterID, candidate),
		logging.String(logging.FieldStoryID, parent),
	)
	return StoryID(parent), nil
}

// FirstDigitRun returns the first maximal run of ASCII digits in s, or "".
func FirstDigitRun(s string) string {
	return digitRun.FindString(s)
}

func quote(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return `""`
	}
	return `"` + s + `"`
}
