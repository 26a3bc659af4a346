package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const entryColumns = "id, run_id, correlation_id, reference, story_id, title, format, output_path, chapters, skipped, status, error_kind, error_message, started_at, finished_at"

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Record inserts entry and returns its row id.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	if entry.RunID == "" {
		return 0, errors.New("history entry requires a run id")
	}
	if entry.Status == "" {
		return 0, errors.New("history entry requires a status")
	}
	finished := entry.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	started := entry.StartedAt
	if started.IsZero() {
		started = finished
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (
            run_id, correlation_id, reference, story_id, title, format, output_path,
            chapters, skipped, status, error_kind, error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullableString(entry.CorrelationID),
		entry.Reference,
		nullableString(entry.StoryID),
		nullableString(entry.Title),
		entry.Format,
		nullableString(entry.OutputPath),
		entry.Chapters,
		entry.Skipped,
		string(entry.Status),
		nullableString(entry.ErrorKind),
		nullableString(entry.ErrorMessage),
		formatTime(started),
		formatTime(finished),
	)
	if err != nil {
		return 0, fmt.Errorf("insert download: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.query(ctx,
		`SELECT `+entryColumns+` FROM downloads ORDER BY finished_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// ForStory returns every entry for storyID, newest first.
func (s *Store) ForStory(ctx context.Context, storyID string) ([]Entry, error) {
	return s.query(ctx,
		`SELECT `+entryColumns+` FROM downloads WHERE story_id = ? ORDER BY finished_at DESC, id DESC`,
		storyID,
	)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry         Entry
		correlationID sql.NullString
		storyID       sql.NullString
		title         sql.NullString
		outputPath    sql.NullString
		status        string
		errorKind     sql.NullString
		errorMessage  sql.NullString
		startedRaw    string
		finishedRaw   string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&correlationID,
		&entry.Reference,
		&storyID,
		&title,
		&entry.Format,
		&outputPath,
		&entry.Chapters,
		&entry.Skipped,
		&status,
		&errorKind,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan download: %w", err)
	}
	entry.CorrelationID = correlationID.String
	entry.StoryID = storyID.String
	entry.Title = title.String
	entry.OutputPath = outputPath.String
	entry.Status = Status(status)
	entry.ErrorKind = errorKind.String
	entry.ErrorMessage = errorMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		entry.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw); err == nil {
		entry.FinishedAt = finished
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
