package timecode

import (
	"errors"
	"time"
)

// Window is the inclusive frame range a scan session may inspect.
// An End before Start denotes an empty window.
type Window struct {
	StartFrame int64
	EndFrame   int64
	FrameRate  float64
}

// NewWindow derives a window from start/end clocks at the source frame rate.
func NewWindow(start, end Clock, rate float64) (Window, error) {
	if rate <= 0 {
		return Window{}, errors.New("frame rate must be positive")
	}
	return Window{
		StartFrame: ToFrame(start, rate),
		EndFrame:   ToFrame(end, rate),
		FrameRate:  rate,
	}, nil
}

// Empty reports whether the window contains no frames.
func (w Window) Empty() bool {
	return w.EndFrame < w.StartFrame
}

// Contains reports whether frame lies within the window.
func (w Window) Contains(frame int64) bool {
	return frame >= w.StartFrame && frame <= w.EndFrame
}

// Span returns the number of frames in the window.
func (w Window) Span() int64 {
	if w.Empty() {
		return 0
	}
	return w.EndFrame - w.StartFrame + 1
}

// Timestamp converts a frame index to its offset from the start of the video.
func (w Window) Timestamp(frame int64) time.Duration {
	return FrameToDuration(frame, w.FrameRate)
}
