package scan

import (
	"context"
	"image"
	"time"
)

// FrameSource is a decoded video stream addressable by frame index.
//
// Read returns io.EOF once the stream is exhausted; any other error means a
// frame the source reported as available could not be decoded.
type FrameSource interface {
	FrameRate() float64
	// FrameCount returns the total number of frames, or a value <= 0 when the
	// container does not report one.
	FrameCount() int64
	Seek(frame int64) error
	// Read decodes the frame at the cursor and advances it by one. ctx bounds
	// any work the source does outside the process.
	Read(ctx context.Context) (image.Image, error)
	Position() int64
	Close() error
}

// Recognizer extracts text from an image region. Blank or garbled regions
// yield an empty or meaningless string, not an error.
type Recognizer interface {
	Recognize(ctx context.Context, region image.Image) (string, error)
}

// MatchRecord is one detected occurrence of a target string.
type MatchRecord struct {
	FrameIndex int64
	Timestamp  time.Duration
	Target     string
}

// Sink receives match records as they happen. Record is called with the full,
// uncropped frame so the sink can persist evidence.
type Sink interface {
	Record(ctx context.Context, match MatchRecord, frame image.Image) error
	Close() error
}

// Progress describes the sample just inspected.
type Progress struct {
	Position int64
	Start    int64
	End      int64
	Matched  bool
}

// Fraction returns how far through the window the sample lies, in [0, 1].
func (p Progress) Fraction() float64 {
	span := p.End - p.Start
	if span <= 0 {
		return 1
	}
	f := float64(p.Position-p.Start) / float64(span)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// Observer is notified after every inspected sample.
type Observer interface {
	Sampled(Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) Sampled(p Progress) { f(p) }
