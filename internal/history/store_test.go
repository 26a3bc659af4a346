package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"storydl/internal/history"
	"storydl/internal/testsupport"
)

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := history.Entry{
		RunID:      "run-1",
		Reference:  "https://www.wattpad.com/story/20738183",
		StoryID:    "20738183",
		Title:      "Expiration Date Duology",
		Format:     "txt",
		OutputPath: "/tmp/out/Expiration Date Duology.txt",
		Chapters:   3,
		Skipped:    2,
		Status:     history.StatusSucceeded,
		StartedAt:  base,
		FinishedAt: base.Add(2 * time.Second),
	}
	second := history.Entry{
		RunID:        "run-1",
		Reference:    "no digits",
		Format:       "txt",
		Status:       history.StatusFailed,
		ErrorKind:    "unresolvable",
		ErrorMessage: "not found",
		StartedAt:    base.Add(3 * time.Second),
		FinishedAt:   base.Add(3 * time.Second),
	}

	id1, err := store.Record(ctx, first)
	if err != nil {
		t.Fatalf("Record first: %v", err)
	}
	id2, err := store.Record(ctx, second)
	if err != nil {
		t.Fatalf("Record second: %v", err)
	}
	if id1 == 0 || id2 <= id1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != id2 || entries[1].ID != id1 {
		t.Fatalf("expected newest first, got %d then %d", entries[0].ID, entries[1].ID)
	}

	got := entries[1]
	if got.StoryID != "20738183" || got.Title != first.Title || got.Chapters != 3 || got.Skipped != 2 {
		t.Fatalf("unexpected entry: %#v", got)
	}
	if got.Status != history.StatusSucceeded || got.ErrorKind != "" {
		t.Fatalf("unexpected status: %#v", got)
	}
	if !got.StartedAt.Equal(first.StartedAt) || got.Duration() != 2*time.Second {
		t.Fatalf("unexpected timing: started=%v duration=%v", got.StartedAt, got.Duration())
	}
	if entries[0].ErrorKind != "unresolvable" || entries[0].StoryID != "" {
		t.Fatalf("unexpected failure entry: %#v", entries[0])
	}
}

func TestListLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * 500 * time.Millisecond)
		if _, err := store.Record(ctx, history.Entry{
			RunID:      "run",
			Reference:  "ref",
			Format:     "txt",
			Status:     history.StatusSucceeded,
			StartedAt:  ts,
			FinishedAt: ts,
		}); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].FinishedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("expected latest entry first, got %v", entries[0].FinishedAt)
	}
}

func TestForStory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for _, storyID := range []string{"1", "2", "1"} {
		if _, err := store.Record(ctx, history.Entry{
			RunID:     "run",
			Reference: storyID,
			StoryID:   storyID,
			Format:    "epub",
			Status:    history.StatusSucceeded,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.ForStory(ctx, "1")
	if err != nil {
		t.Fatalf("ForStory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestRecordValidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if _, err := store.Record(context.Background(), history.Entry{Status: history.StatusFailed}); err == nil {
		t.Fatal("expected error without run id")
	}
	if _, err := store.Record(context.Background(), history.Entry{RunID: "run"}); err == nil {
		t.Fatal("expected error without status")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{RunID: "run", Reference: "r", Format: "txt", Status: history.StatusSucceeded}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	entries, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %d", len(entries))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("seed schema: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
