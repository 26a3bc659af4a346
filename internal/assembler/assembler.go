// Package assembler turns a story id into one output document.
//
// Metadata is fetched with drafts and deleted parts included and filtered
// locally. Eligible chapters are fetched one at a time in publication order and
// prepared by the configured serializer. Nothing is written until every fetch
// has succeeded, and the write itself is atomic, so a failure never leaves a
// partial document behind.
package assembler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"storydl/internal/categories"
	"storydl/internal/document"
	"storydl/internal/fileutil"
	"storydl/internal/logging"
	"storydl/internal/platform"
	"storydl/internal/resolver"
	"storydl/internal/services"
	"storydl/internal/textutil"
)

// Source is the subset of the platform API the assembler reads.
type Source interface {
	Story(ctx context.Context, id string) (*platform.Story, error)
	ChapterText(ctx context.Context, chapterID string) (string, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Assembler builds and persists documents for one output format.
type Assembler struct {
	source     Source
	categories categories.Lookup
	serializer document.Serializer
	outputDir  string
	logger     *slog.Logger
}

// Result describes a persisted document.
type Result struct {
	StoryID  resolver.StoryID
	Title    string
	Path     string
	Format   string
	Chapters int
	Skipped  int
}

// New constructs an Assembler writing into outputDir.
func New(source Source, lookup categories.Lookup, serializer document.Serializer, outputDir string, logger *slog.Logger) *Assembler {
	if outputDir == "" {
		outputDir = "."
	}
	return &Assembler{
		source:     source,
		categories: lookup,
		serializer: serializer,
		outputDir:  outputDir,
		logger:     logging.NewComponentLogger(logger, "assembler"),
	}
}

// Format reports the serializer's format name.
func (a *Assembler) Format() string {
	return a.serializer.Format()
}

// Build fetches everything needed for id and returns the assembled document.
func (a *Assembler) Build(ctx context.Context, id resolver.StoryID) (*document.Story, error) {
	ctx = services.WithStoryID(ctx, id.String())
	logger := logging.WithContext(ctx, a.logger)

	meta, err := a.source.Story(ctx, id.String())
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "assembler", "story metadata", "story "+id.String(), err)
	}
	logger.Info("story", logging.String("title", meta.Title), logging.Int("parts", len(meta.Parts)))

	story := &document.Story{
		ID:          id.String(),
		Title:       meta.Title,
		Description: meta.Description,
		Created:     meta.CreateDate,
		Modified:    meta.ModifyDate,
		Author:      meta.Author,
		Categories:  a.categories.Resolve(meta.Categories),
		Rating:      meta.Rating,
		SourceURL:   meta.URL,
		Parts:       len(meta.Parts),
		Chapters:    make([]document.Chapter, 0, len(meta.Parts)),
	}

	for index, part := range meta.Parts {
		partLogger := logger.With(
			logging.String(logging.FieldChapterID, part.ID.String()),
			logging.Int(logging.FieldChapterIndex, index),
			logging.String("chapter_title", part.Title),
		)
		if !part.Eligible() {
			partLogger.Info("skipping chapter", logging.String("reason", skipReason(part)))
			continue
		}
		partLogger.Info("downloading chapter")
		raw, err := a.source.ChapterText(ctx, part.ID.String())
		if err != nil {
			return nil, services.Wrap(services.ErrFetch, "assembler", "chapter text", "chapter "+part.ID.String(), err)
		}
		body, err := a.serializer.PrepareBody(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrMalformedResponse, "assembler", "chapter body", "chapter "+part.ID.String(), err)
		}
		story.Chapters = append(story.Chapters, document.Chapter{
			ID:       part.ID.String(),
			Title:    part.Title,
			Modified: part.ModifyDate,
			Index:    index,
			Position: len(story.Chapters),
			Body:     body,
		})
	}

	if a.serializer.WantsCover() && meta.Cover != "" {
		data, err := a.source.Download(ctx, meta.Cover)
		if err != nil {
			return nil, services.Wrap(services.ErrFetch, "assembler", "cover", meta.Cover, err)
		}
		story.Cover = &document.Image{Data: data}
	}
	return story, nil
}

// Assemble builds the document for id and writes it to the output directory.
func (a *Assembler) Assemble(ctx context.Context, id resolver.StoryID) (Result, error) {
	story, err := a.Build(ctx, id)
	if err != nil {
		return Result{StoryID: id}, err
	}
	path := a.OutputPath(story)
	result := Result{
		StoryID:  id,
		Title:    story.Title,
		Path:     path,
		Format:   a.serializer.Format(),
		Chapters: len(story.Chapters),
		Skipped:  story.Parts - len(story.Chapters),
	}

	logger := logging.WithContext(services.WithStoryID(ctx, id.String()), a.logger)
	logger.Info("saving document", logging.String("path", path), logging.String("format", result.Format))
	err = fileutil.WriteAtomic(path, func(w io.Writer) error {
		return a.serializer.Write(w, story)
	})
	if err != nil {
		return result, services.Wrap(services.ErrStorage, "assembler", "write document", path, err)
	}
	return result, nil
}

// OutputPath is where story will be written.
func (a *Assembler) OutputPath(story *document.Story) string {
	return filepath.Join(a.outputDir, textutil.FileName(story.Title, story.ID, a.serializer.Extension()))
}

func skipReason(part platform.Part) string {
	if part.Draft {
		return "draft"
	}
	return "deleted"
}
