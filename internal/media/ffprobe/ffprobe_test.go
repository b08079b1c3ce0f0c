package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", AvgFrameRate: "30000/1001", RFrameRate: "30/1", NBFrames: "1800"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if got := result.FrameRate(); math.Abs(got-29.97003) > 0.0001 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
	if result.FrameCount() != 1800 {
		t.Fatalf("unexpected frame count: %d", result.FrameCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestFrameRateFallsBackToBaseRate(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "25/1"}}}
	if result.FrameRate() != 25 {
		t.Fatalf("expected r_frame_rate fallback, got %v", result.FrameRate())
	}
}

func TestFrameCountEstimatedFromDuration(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", RFrameRate: "25/1"}},
		Format:  Format{Duration: "10.5"},
	}
	if result.FrameCount() != 262 {
		t.Fatalf("expected estimate of 262 frames, got %d", result.FrameCount())
	}
}

func TestNoVideoStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
	if result.FrameRate() != 0 || result.FrameCount() != 0 {
		t.Fatal("expected zero rate and count without a video stream")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestInspectParsesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"index\":0,\"codec_type\":\"video\",\"codec_name\":\"h264\",\"width\":1920,\"height\":1080,\"avg_frame_rate\":\"25/1\",\"nb_frames\":\"250\"}],\"format\":{\"duration\":\"10.000000\",\"format_name\":\"mov,mp4\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, filepath.Join(dir, "race.mp4"))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.FrameRate() != 25 || result.FrameCount() != 250 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw JSON to be retained")
	}
}

func TestInspectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'No such file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "/missing.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
