package batch

import (
	"log/slog"

	"framescan/internal/logging"
	"framescan/internal/scan"
	"framescan/internal/timecode"
)

// ProgressFunc creates an observer for one session. The returned finish
// function runs once the session returns.
type ProgressFunc func(video string, window timecode.Window) (scan.Observer, func())

// LogProgress reports progress as log lines, one per 5% of the window.
func LogProgress(logger *slog.Logger) ProgressFunc {
	logger = logging.NewComponentLogger(logger, "progress")
	sampler := logging.NewProgressSampler(5)
	return func(video string, window timecode.Window) (scan.Observer, func()) {
		sampler.Reset()
		observer := scan.ObserverFunc(func(p scan.Progress) {
			percent := p.Fraction() * 100
			if !sampler.ShouldLog(percent, video) {
				return
			}
			logger.Info("scan progress",
				logging.String(logging.FieldVideo, video),
				logging.Float64("percent", percent),
				logging.String("position", timecode.FormatDuration(window.Timestamp(p.Position))),
			)
		})
		return observer, func() {}
	}
}
