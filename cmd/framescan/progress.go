package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"framescan/internal/batch"
	"framescan/internal/scan"
	"framescan/internal/timecode"
)

// newProgress picks a progress bar on an interactive terminal and sampled
// log lines otherwise.
func newProgress(w io.Writer, logger *slog.Logger, quiet bool) batch.ProgressFunc {
	if quiet {
		return nil
	}
	if isTerminal(w) {
		return barProgress(w)
	}
	return batch.LogProgress(logger)
}

func barProgress(w io.Writer) batch.ProgressFunc {
	return func(video string, window timecode.Window) (scan.Observer, func()) {
		bar := progressbar.NewOptions64(window.Span(),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(video),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		observer := scan.ObserverFunc(func(p scan.Progress) {
			_ = bar.Set64(p.Position - p.Start + 1)
		})
		return observer, func() { _ = bar.Finish() }
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
