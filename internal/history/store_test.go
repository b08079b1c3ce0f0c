package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"framescan/internal/history"
	"framescan/internal/scan"
	"framescan/internal/services"
	"framescan/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	return testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Begin(ctx, history.RunStart{
		SessionID:  "session-1",
		VideoPath:  "/videos/race.mp4",
		OutputDir:  "/videos/race",
		Targets:    []string{"LAP 1", "FINISH"},
		StartFrame: 0,
		EndFrame:   2997,
		FrameRate:  29.97,
		Stride:     210,
	})
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}

	run, err := store.Get(ctx, id)
	if err != nil || run == nil {
		t.Fatalf("Get returned %v, %v", run, err)
	}
	if run.Status != history.StatusRunning || run.FinishedAt != nil {
		t.Fatalf("expected running run, got %+v", run)
	}
	if len(run.Targets) != 2 || run.Targets[1] != "FINISH" {
		t.Fatalf("unexpected targets: %v", run.Targets)
	}

	rec := store.Recorder(id, "/videos/race")
	for _, m := range []scan.MatchRecord{
		{FrameIndex: 420, Timestamp: 14014 * time.Millisecond, Target: "FINISH"},
		{FrameIndex: 0, Timestamp: 0, Target: "LAP 1"},
	} {
		if err := rec.Record(ctx, m, nil); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if err := store.Finish(ctx, id, history.RunResult{Status: services.StatusCompleted, Samples: 15, Matches: 2}); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}

	run, err = store.Get(ctx, id[:8])
	if err != nil || run == nil {
		t.Fatalf("Get by prefix returned %v, %v", run, err)
	}
	if run.Status != services.StatusCompleted || run.Samples != 15 || run.Matches != 2 || run.FinishedAt == nil {
		t.Fatalf("unexpected finished run: %+v", run)
	}
	if run.Stride != 210 || run.FrameRate != 29.97 || run.SessionID != "session-1" {
		t.Fatalf("unexpected run fields: %+v", run)
	}

	matches, err := store.Matches(ctx, id)
	if err != nil {
		t.Fatalf("Matches returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].FrameIndex != 0 || matches[1].FrameIndex != 420 {
		t.Fatalf("expected frame order, got %+v", matches)
	}
	if matches[1].Timestamp != 14014*time.Millisecond || matches[1].Target != "FINISH" {
		t.Fatalf("unexpected match: %+v", matches[1])
	}
	if matches[1].ImagePath != filepath.Join("/videos/race", "420.png") {
		t.Fatalf("unexpected image path %q", matches[1].ImagePath)
	}
}

func TestFinishRecordsError(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	id, err := store.Begin(ctx, history.RunStart{VideoPath: "a.mp4", FrameRate: 25})
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	cause := services.Wrap(services.ErrDecode, "scan", "read", "frame 14", errors.New("corrupt"))
	if err := store.Finish(ctx, id, history.RunResult{Status: services.StatusFailed, Samples: 2, Exhausted: true, Err: cause}); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	run, _ := store.Get(ctx, id)
	if run.Status != services.StatusFailed || run.ErrorMessage != cause.Error() || !run.Exhausted {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Targets == nil || len(run.Targets) != 0 {
		t.Fatalf("expected empty targets slice, got %#v", run.Targets)
	}

	if err := store.Finish(ctx, "missing", history.RunResult{Status: services.StatusFailed}); err == nil {
		t.Fatal("expected error finishing unknown run")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	var ids []string
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		id, err := store.Begin(ctx, history.RunStart{VideoPath: name, FrameRate: 25})
		if err != nil {
			t.Fatalf("Begin returned error: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("expected newest first, got %s, %s", runs[0].VideoPath, runs[1].VideoPath)
	}

	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List(0) returned %d runs, err=%v", len(all), err)
	}
}

func TestGetMissingAndEmpty(t *testing.T) {
	store := openStore(t)
	run, err := store.Get(context.Background(), "does-not-exist")
	if err != nil || run != nil {
		t.Fatalf("expected nil, nil; got %v, %v", run, err)
	}
	if _, err := store.Get(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	id, err := store.Begin(context.Background(), history.RunStart{VideoPath: "a.mp4", FrameRate: 25})
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	_ = store.Close()

	store, err = history.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer store.Close()
	if run, err := store.Get(context.Background(), id); err != nil || run == nil {
		t.Fatalf("expected run after reopen, got %v, %v", run, err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}
