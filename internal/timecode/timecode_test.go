package timecode_test

import (
	"errors"
	"testing"
	"time"

	"framescan/internal/services"
	"framescan/internal/timecode"
)

func TestParseClock(t *testing.T) {
	c, err := timecode.ParseClock("01:02:03")
	if err != nil {
		t.Fatalf("ParseClock returned error: %v", err)
	}
	if c.Hours != 1 || c.Minutes != 2 || c.Seconds != 3 {
		t.Fatalf("unexpected clock: %+v", c)
	}
	if c.TotalSeconds() != 3723 {
		t.Fatalf("unexpected total seconds: %d", c.TotalSeconds())
	}
	if c.String() != "01:02:03" {
		t.Fatalf("unexpected string form: %q", c.String())
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "10:00", "1:2:3:4", "aa:00:00", "00:-1:00", "00:+1:00", "00:60:00", "24:00:00", "00:00:61", "1.5:00:00"} {
		_, err := timecode.ParseClock(value)
		if err == nil {
			t.Fatalf("expected error for %q", value)
		}
		if !errors.Is(err, services.ErrConfig) {
			t.Fatalf("expected ConfigError for %q, got %v", value, err)
		}
		var cfgErr *services.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Reason != services.ReasonMalformedTime {
			t.Fatalf("expected malformed_time for %q, got %v", value, err)
		}
	}
}

func TestToFrameFloors(t *testing.T) {
	c := timecode.Clock{Seconds: 1}
	if got := timecode.ToFrame(c, 29.97); got != 29 {
		t.Fatalf("ToFrame = %d, want 29", got)
	}
	c = timecode.Clock{Hours: 1}
	if got := timecode.ToFrame(c, 25); got != 90000 {
		t.Fatalf("ToFrame = %d, want 90000", got)
	}
}

func TestFrameToDuration(t *testing.T) {
	if got := timecode.FrameToDuration(8, 1); got != 8*time.Second {
		t.Fatalf("FrameToDuration = %v", got)
	}
	if got := timecode.FrameToDuration(1, 3); got != 333333*time.Microsecond {
		t.Fatalf("FrameToDuration = %v", got)
	}
	if got := timecode.FrameToDuration(5, 0); got != 0 {
		t.Fatalf("expected zero for non-positive rate, got %v", got)
	}
}

func TestRoundTripWithinOneFrame(t *testing.T) {
	rates := []float64{1, 23.976, 24, 25, 29.97, 30, 59.94, 60}
	for _, rate := range rates {
		for _, frame := range []int64{0, 1, 2, 7, 209, 1001, 43157, 215784, 1_000_003} {
			back := timecode.DurationToFrame(timecode.FrameToDuration(frame, rate), rate)
			diff := back - frame
			if diff < -1 || diff > 1 {
				t.Fatalf("rate %v frame %d round-tripped to %d", rate, frame, back)
			}
		}
	}
}

func TestStride(t *testing.T) {
	cases := []struct {
		rate float64
		want int64
	}{
		{1, 7},
		{25, 175},
		{29.97, 210},
		{59.94, 420},
		{0.01, 1},
	}
	for _, tc := range cases {
		if got := timecode.Stride(tc.rate, 7); got != tc.want {
			t.Fatalf("Stride(%v) = %d, want %d", tc.rate, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:               "0:00:00",
		8 * time.Second: "0:00:08",
		time.Hour + 2*time.Minute + 3*time.Second: "1:02:03",
		26 * time.Hour:            "26:00:00",
		1500 * time.Millisecond:   "0:00:01.500000",
		333333 * time.Microsecond: "0:00:00.333333",
	}
	for d, want := range cases {
		if got := timecode.FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestWindow(t *testing.T) {
	start, _ := timecode.ParseClock("00:00:10")
	end, _ := timecode.ParseClock("00:00:05")
	w, err := timecode.NewWindow(start, end, 30)
	if err != nil {
		t.Fatalf("NewWindow returned error: %v", err)
	}
	if !w.Empty() || w.Span() != 0 {
		t.Fatalf("expected empty window, got %+v", w)
	}

	w, err = timecode.NewWindow(end, start, 30)
	if err != nil {
		t.Fatalf("NewWindow returned error: %v", err)
	}
	if w.StartFrame != 150 || w.EndFrame != 300 || w.Span() != 151 {
		t.Fatalf("unexpected window: %+v", w)
	}
	if !w.Contains(300) || w.Contains(301) {
		t.Fatal("unexpected Contains result")
	}
	if _, err := timecode.NewWindow(start, end, 0); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}
