package batch_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storydl/internal/assembler"
	"storydl/internal/batch"
	"storydl/internal/history"
	"storydl/internal/logging"
	"storydl/internal/resolver"
	"storydl/internal/services"
	"storydl/internal/testsupport"
)

type stubResolver struct {
	ids map[string]resolver.StoryID
}

func (s stubResolver) Resolve(ctx context.Context, reference string) (resolver.StoryID, error) {
	if id, ok := s.ids[reference]; ok {
		return id, nil
	}
	return "", services.Wrap(services.ErrNotFound, "resolver", "extract id", reference, nil)
}

type stubAssembler struct {
	fail     map[resolver.StoryID]error
	calls    []resolver.StoryID
	runIDs   []string
	onCall   func()
	storyIDs []string
}

func (s *stubAssembler) Assemble(ctx context.Context, id resolver.StoryID) (assembler.Result, error) {
	s.calls = append(s.calls, id)
	runID, _ := services.RunIDFromContext(ctx)
	s.runIDs = append(s.runIDs, runID)
	storyID, _ := services.StoryIDFromContext(ctx)
	s.storyIDs = append(s.storyIDs, storyID)
	if s.onCall != nil {
		s.onCall()
	}
	if err := s.fail[id]; err != nil {
		return assembler.Result{StoryID: id, Path: "/out/partial"}, err
	}
	return assembler.Result{
		StoryID:  id,
		Title:    "Story " + id.String(),
		Path:     "/out/Story " + id.String() + ".txt",
		Format:   "txt",
		Chapters: 3,
		Skipped:  1,
	}, nil
}

func (s *stubAssembler) Format() string { return "txt" }

type memoryRecorder struct {
	entries []history.Entry
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, entry history.Entry) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.entries = append(m.entries, entry)
	return int64(len(m.entries)), nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	res := stubResolver{ids: map[string]resolver.StoryID{
		"https://www.wattpad.com/story/1-a": "1",
		"https://www.wattpad.com/story/2-b": "2",
		"https://www.wattpad.com/story/3-c": "3",
	}}
	asm := &stubAssembler{fail: map[resolver.StoryID]error{
		"2": services.Wrap(services.ErrFetch, "assembler", "chapter text", "chapter 9", nil),
	}}
	rec := &memoryRecorder{}
	runner := batch.New(res, asm, logging.NewNop(), batch.WithRecorder(rec), batch.WithIDGenerator(sequentialIDs()))

	summary, err := runner.Run(context.Background(), []string{
		"https://www.wattpad.com/story/1-a",
		"no digits here",
		"https://www.wattpad.com/story/2-b",
		"https://www.wattpad.com/story/3-c",
	})
	require.NoError(t, err)
	require.Equal(t, "id-1", summary.RunID)
	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, 2, summary.Failed)
	require.True(t, summary.HasFailures())
	require.Equal(t, []resolver.StoryID{"1", "2", "3"}, asm.calls)
	require.Equal(t, []string{"id-1", "id-1", "id-1"}, asm.runIDs)
	require.Equal(t, []string{"1", "2", "3"}, asm.storyIDs)

	failures := summary.Failures()
	require.Len(t, failures, 2)
	require.Equal(t, "no digits here", failures[0].Reference)
	require.Equal(t, services.KindUnresolvable, failures[0].Kind)
	require.Equal(t, services.KindFetch, failures[1].Kind)

	require.Len(t, rec.entries, 4)
	require.Equal(t, history.StatusSucceeded, rec.entries[0].Status)
	require.Equal(t, "1", rec.entries[0].StoryID)
	require.Equal(t, "/out/Story 1.txt", rec.entries[0].OutputPath)
	require.Equal(t, 3, rec.entries[0].Chapters)
	require.Equal(t, "id-1", rec.entries[0].RunID)
	require.Equal(t, "id-2", rec.entries[0].CorrelationID)

	require.Equal(t, history.StatusFailed, rec.entries[1].Status)
	require.Equal(t, services.KindUnresolvable, rec.entries[1].ErrorKind)
	require.Empty(t, rec.entries[1].StoryID)

	require.Equal(t, history.StatusFailed, rec.entries[2].Status)
	require.Equal(t, "2", rec.entries[2].StoryID)
	require.Empty(t, rec.entries[2].OutputPath)
	require.True(t, strings.Contains(rec.entries[2].ErrorMessage, "chapter 9"))
}

func TestRunAllSucceeded(t *testing.T) {
	res := stubResolver{ids: map[string]resolver.StoryID{"1": "1"}}
	summary, err := batch.New(res, &stubAssembler{}, nil).Run(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.False(t, summary.HasFailures())
	require.Empty(t, summary.Failures())
	require.NotEmpty(t, summary.RunID)
}

func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res := stubResolver{ids: map[string]resolver.StoryID{"1": "1", "2": "2"}}
	asm := &stubAssembler{onCall: cancel}
	rec := &memoryRecorder{}

	summary, err := batch.New(res, asm, nil, batch.WithRecorder(rec)).Run(ctx, []string{"1", "2"})
	require.True(t, batch.IsCanceled(err))
	require.Len(t, summary.Outcomes, 1)
	require.Equal(t, []resolver.StoryID{"1"}, asm.calls)
	require.Len(t, rec.entries, 1, "the in-flight reference is still recorded")
}

func TestRunRecorderFailureIsNotFatal(t *testing.T) {
	res := stubResolver{ids: map[string]resolver.StoryID{"1": "1"}}
	rec := &memoryRecorder{err: errors.New("disk full")}
	summary, err := batch.New(res, &stubAssembler{}, nil, batch.WithRecorder(rec)).Run(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)
}

func TestRunRecordsDurationFromClock(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	res := stubResolver{ids: map[string]resolver.StoryID{"1": "1"}}
	rec := &memoryRecorder{}

	summary, err := batch.New(res, &stubAssembler{}, nil, batch.WithRecorder(rec), batch.WithClock(clock)).Run(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Equal(t, time.Second, summary.Outcomes[0].Duration)
	require.Equal(t, time.Second, rec.entries[0].Duration())
}

func TestRunWritesToHistoryStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	res := stubResolver{ids: map[string]resolver.StoryID{"1": "1"}}

	summary, err := batch.New(res, &stubAssembler{}, nil, batch.WithRecorder(store)).Run(context.Background(), []string{"1", "bad"})
	require.NoError(t, err)

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Equal(t, summary.RunID, entry.RunID)
	}
}

func TestRunLogsFailingStage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	res := stubResolver{ids: map[string]resolver.StoryID{"2": "2"}}
	asm := &stubAssembler{fail: map[resolver.StoryID]error{
		"2": services.Wrap(services.ErrStorage, "assembler", "write", "", nil),
	}}

	_, err := batch.New(res, asm, logger).Run(context.Background(), []string{"none", "2"})
	require.NoError(t, err)

	stages := map[string]string{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		if record["msg"] != "reference failed" {
			continue
		}
		stages[record[logging.FieldReference].(string)] = record[logging.FieldStage].(string)
	}
	require.Equal(t, map[string]string{"none": "resolve", "2": "assemble"}, stages)
}
