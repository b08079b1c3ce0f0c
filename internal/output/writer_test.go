package output_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"framescan/internal/output"
	"framescan/internal/scan"
	"framescan/internal/services"
)

func TestDir(t *testing.T) {
	tests := []struct {
		name  string
		video string
		root  string
		want  string
	}{
		{name: "next to video", video: "/videos/race.mp4", want: "/videos/race"},
		{name: "double extension", video: "/videos/race.final.mkv", want: "/videos/race.final"},
		{name: "no extension", video: "/videos/race", want: "/videos/race"},
		{name: "custom root", video: "/videos/2024/race.mp4", root: "/out", want: "/out/race"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := output.Dir(tc.video, tc.root); got != tc.want {
				t.Fatalf("Dir(%q, %q) = %q, want %q", tc.video, tc.root, got, tc.want)
			}
		})
	}
}

func TestWriterWritesHeaderRowsAndImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "race")
	w, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	frame.Set(1, 1, color.RGBA{R: 200, A: 255})
	records := []scan.MatchRecord{
		{FrameIndex: 0, Timestamp: 0},
		{FrameIndex: 210, Timestamp: 7007 * time.Millisecond},
	}
	for _, rec := range records {
		if err := w.Record(context.Background(), rec, frame); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	// Rows are flushed before Close.
	content, err := os.ReadFile(filepath.Join(dir, "timestamps.csv"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got, want := string(content), "Timestamp\n0:00:00\n0:00:07.007000\n"; got != want {
		t.Fatalf("unexpected log contents:\n%q\nwant\n%q", got, want)
	}
	if w.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", w.Rows())
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	for _, name := range []string{"0.png", "210.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if img.Bounds() != frame.Bounds() {
			t.Fatalf("%s has bounds %v", name, img.Bounds())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".framescan.lock")); err != nil {
		t.Fatalf("expected lock file to stay after close: %v", err)
	}
}

func TestWriterHeaderOnlyWhenNoMatches(t *testing.T) {
	dir := t.TempDir()
	w, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "timestamps.csv"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.TrimSpace(string(content)) != output.HeaderTimestamp {
		t.Fatalf("expected header only, got %q", content)
	}
}

func TestWriterReplacesPreviousLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "timestamps.csv")
	if err := os.WriteFile(logPath, []byte("Timestamp\n9:99:99\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	w, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	_ = w.Close()
	content, _ := os.ReadFile(logPath)
	if strings.Contains(string(content), "9:99:99") {
		t.Fatalf("expected stale rows to be replaced, got %q", content)
	}
}

func TestWriterLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer first.Close()

	_, err = output.Open(dir, "timestamps.csv")
	if !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestWriterLockHoldsAcrossSuccessiveScans(t *testing.T) {
	dir := t.TempDir()
	first, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}

	second, err := output.Open(dir, "timestamps.csv")
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	if _, err := output.Open(dir, "timestamps.csv"); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy while the second scan holds the lock, got %v", err)
	}
}

func TestWriterRecordAfterClose(t *testing.T) {
	w, err := output.Open(t.TempDir(), "timestamps.csv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	_ = w.Close()
	if err := w.Record(context.Background(), scan.MatchRecord{}, nil); err == nil {
		t.Fatal("expected error recording after close")
	}
}

func TestOpenRejectsUnwritableDirectory(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	_, err := output.Open(filepath.Join(blocker, "race"), "timestamps.csv")
	if !errors.Is(err, services.ErrOutput) {
		t.Fatalf("expected ErrOutput, got %v", err)
	}
}
