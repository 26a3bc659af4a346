package history

import "time"

// Status is the outcome of one download attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one recorded attempt.
type Entry struct {
	ID            int64
	RunID         string
	CorrelationID string
	Reference     string
	StoryID       string
	Title         string
	Format        string
	OutputPath    string
	Chapters      int
	Skipped       int
	Status        Status
	ErrorKind     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration reports how long the attempt took.
func (e Entry) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}
