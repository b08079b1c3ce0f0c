package history

import (
	"time"

	"framescan/internal/services"
)

// StatusRunning marks a run whose session has not reported back. A run left
// in this state after the process exits was interrupted.
const StatusRunning services.Status = "running"

// Run is one scan session as stored.
type Run struct {
	ID           string
	SessionID    string
	VideoPath    string
	OutputDir    string
	Targets      []string
	StartFrame   int64
	EndFrame     int64
	FrameRate    float64
	Stride       int64
	Status       services.Status
	Samples      int
	Matches      int
	Exhausted    bool
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration returns the wall time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Match is one recorded match event.
type Match struct {
	ID         int64
	RunID      string
	FrameIndex int64
	Timestamp  time.Duration
	Target     string
	ImagePath  string
	CreatedAt  time.Time
}

// RunStart carries the fields known when a session begins.
type RunStart struct {
	SessionID  string
	VideoPath  string
	OutputDir  string
	Targets    []string
	StartFrame int64
	EndFrame   int64
	FrameRate  float64
	Stride     int64
}

// RunResult carries the fields known when a session ends.
type RunResult struct {
	Status    services.Status
	Samples   int
	Matches   int
	Exhausted bool
	Err       error
}
