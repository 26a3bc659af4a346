// Package categories holds the read-only category code to label table.
//
// The table is fetched once per process and then shared by value. Lookups
// report absence explicitly; Resolve discards codes the table does not know,
// including the sentinel code 0 which the platform uses for "no category".
package categories

import (
	"context"
	"log/slog"
	"sort"

	"storydl/internal/logging"
	"storydl/internal/services"
)

// NoCategory is the sentinel code the platform emits for an unset category.
const NoCategory = 0

// Entry is one row of the table.
type Entry struct {
	Code  int
	Label string
}

// Lookup maps category codes to labels. The zero value is an empty table.
type Lookup struct {
	labels map[int]string
}

// Source fetches the raw table.
type Source interface {
	Categories(ctx context.Context) (map[int]string, error)
}

// New copies labels into an immutable Lookup.
func New(labels map[int]string) Lookup {
	copied := make(map[int]string, len(labels))
	for code, label := range labels {
		copied[code] = label
	}
	return Lookup{labels: copied}
}

// Load fetches the table from src once.
func Load(ctx context.Context, src Source, logger *slog.Logger) (Lookup, error) {
	logger = logging.NewComponentLogger(logger, "categories")
	labels, err := src.Categories(ctx)
	if err != nil {
		return Lookup{}, services.Wrap(services.ErrFetch, "categories", "load", "fetch categories", err)
	}
	lookup := New(labels)
	logger.Debug("categories loaded", logging.Int("count", lookup.Len()))
	return lookup, nil
}

// Label returns the label for code and whether the table knows it. The
// sentinel code is never known.
func (l Lookup) Label(code int) (string, bool) {
	if code == NoCategory {
		return "", false
	}
	label, ok := l.labels[code]
	return label, ok
}

// Resolve maps codes to labels in input order, dropping codes without a label.
func (l Lookup) Resolve(codes []int) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		label, ok := l.Label(code)
		if !ok {
			continue
		}
		out = append(out, label)
	}
	return out
}

// Len reports the number of known codes.
func (l Lookup) Len() int {
	return len(l.labels)
}

// Entries returns the table sorted by code.
func (l Lookup) Entries() []Entry {
	entries := make([]Entry, 0, len(l.labels))
	for code, label := range l.labels {
		entries = append(entries, Entry{Code: code, Label: label})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Code < entries[j].Code
	})
	return entries
}
