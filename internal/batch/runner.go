package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"storydl/internal/assembler"
	"storydl/internal/history"
	"storydl/internal/logging"
	"storydl/internal/resolver"
	"storydl/internal/services"
)

// Resolver maps a reference to a story id.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (resolver.StoryID, error)
}

// Assembler produces one document per story id.
type Assembler interface {
	Assemble(ctx context.Context, id resolver.StoryID) (assembler.Result, error)
	Format() string
}

// Recorder persists attempt outcomes. It is optional.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (int64, error)
}

// Outcome is the result of processing one reference.
type Outcome struct {
	Reference     string
	CorrelationID string
	StoryID       resolver.StoryID
	Result        assembler.Result
	Err           error
	Kind          string
	Duration      time.Duration
}

// OK reports whether the reference produced a document.
func (o Outcome) OK() bool { return o.Err == nil }

// Summary aggregates a run.
type Summary struct {
	RunID     string
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// HasFailures reports whether any reference failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Failures returns the failed outcomes in input order.
func (s Summary) Failures() []Outcome {
	var failed []Outcome
	for _, outcome := range s.Outcomes {
		if !outcome.OK() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Runner processes references sequentially.
type Runner struct {
	resolver  Resolver
	assembler Assembler
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder enables history recording.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides run and correlation id generation.
func WithIDGenerator(newID func() string) Option {
	return func(r *Runner) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// New constructs a Runner.
func New(res Resolver, asm Assembler, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		resolver:  res,
		assembler: asm,
		logger:    logging.NewComponentLogger(logger, "batch"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run processes every reference. The returned error is non-nil only when ctx
// was cancelled; per-reference failures are reported in the Summary.
func (r *Runner) Run(ctx context.Context, references []string) (Summary, error) {
	summary := Summary{RunID: r.newID()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Debug("batch started", logging.Int("references", len(references)))

	for _, reference := range references {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "batch interrupted", "batch_interrupted",
				logging.Int("remaining", len(references)-len(summary.Outcomes)),
				logging.String(logging.FieldImpact, "remaining references were not processed"),
				logging.String(logging.FieldErrorHint, "rerun with the unprocessed references"),
			)
			return summary, err
		}
		outcome := r.process(ctx, summary.RunID, reference)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.OK() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

// Stage names carried in the context of each step; failure logs report the
// step that failed.
const (
	stageResolve  = "resolve"
	stageAssemble = "assemble"
	stageRecord   = "record"
)

func (r *Runner) process(ctx context.Context, runID, reference string) Outcome {
	outcome := Outcome{Reference: reference, CorrelationID: r.newID()}
	ctx = services.WithRequestID(ctx, outcome.CorrelationID)
	started := r.now()

	ctx = services.WithStage(ctx, stageResolve)
	id, err := r.resolver.Resolve(ctx, reference)
	if err == nil {
		outcome.StoryID = id
		ctx = services.WithStoryID(ctx, id.String())
		ctx = services.WithStage(ctx, stageAssemble)
		outcome.Result, err = r.assembler.Assemble(ctx, id)
	}
	finished := r.now()
	outcome.Duration = finished.Sub(started)

	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldReference, reference))
	if err != nil {
		outcome.Err = err
		outcome.Kind = services.Kind(err)
		logging.ErrorWithContext(logger, "reference failed", "reference_failed",
			logging.String(logging.FieldErrorKind, outcome.Kind),
			logging.String(logging.FieldErrorHint, errorHint(outcome.Kind)),
			logging.Error(err),
		)
	} else {
		logger.Info("document saved",
			logging.String("path", outcome.Result.Path),
			logging.Int("chapters", outcome.Result.Chapters),
			logging.Int("skipped", outcome.Result.Skipped),
			logging.Duration("duration", outcome.Duration),
		)
	}

	r.record(ctx, logger, runID, outcome, started, finished)
	return outcome
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, runID string, outcome Outcome, started, finished time.Time) {
	if r.recorder == nil {
		return
	}
	entry := history.Entry{
		RunID:         runID,
		CorrelationID: outcome.CorrelationID,
		Reference:     outcome.Reference,
		StoryID:       outcome.StoryID.String(),
		Title:         outcome.Result.Title,
		Format:        r.assembler.Format(),
		OutputPath:    outcome.Result.Path,
		Chapters:      outcome.Result.Chapters,
		Skipped:       outcome.Result.Skipped,
		Status:        history.StatusSucceeded,
		StartedAt:     started,
		FinishedAt:    finished,
	}
	if outcome.Err != nil {
		entry.Status = history.StatusFailed
		entry.ErrorKind = outcome.Kind
		entry.ErrorMessage = outcome.Err.Error()
		// The path only exists when the document was written.
		entry.OutputPath = ""
	}
	// Record even when the reference was cancelled mid-flight.
	recordCtx := services.WithStage(context.WithoutCancel(ctx), stageRecord)
	if _, err := r.recorder.Record(recordCtx, entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "attempt missing from download history"),
			logging.String(logging.FieldErrorHint, "check history.path permissions"),
		)
	}
}

func errorHint(kind string) string {
	switch kind {
	case services.KindUnresolvable:
		return "check the reference points at a story or chapter"
	case services.KindFetch, services.KindMalformed:
		return "check network access, proxy and user_agent settings"
	case services.KindStorage:
		return "check output.dir is writable"
	case services.KindCanceled:
		return "rerun to process this reference"
	default:
		return "rerun with --log-level debug for details"
	}
}

// IsCanceled reports whether err came from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
