package batch

import (
	"context"
	"errors"
	"strings"

	"framescan/internal/fileutil"
	"framescan/internal/job"
	"framescan/internal/logging"
	"framescan/internal/services"
	"framescan/internal/timecode"
)

// Item is one job entry after validation.
type Item struct {
	Entry job.Entry
	// Path is the resolved video file; empty when the entry was rejected.
	Path string
	// Candidates lists every file sharing the video's name under the root.
	Candidates []string
	Start      timecode.Clock
	End        timecode.Clock
	Err        error
}

// Ready reports whether the item can be scanned.
func (i Item) Ready() bool { return i.Err == nil }

// CheckReport is the outcome of validating a job.
type CheckReport struct {
	Root    string
	Targets []string
	Items   []Item
	// Problems holds job-level findings, such as an empty target list.
	Problems []job.Problem
	// Ignored lists top-level job keys that were skipped.
	Ignored []string
}

// Ready returns the number of items that can be scanned.
func (r *CheckReport) Ready() int {
	n := 0
	for _, item := range r.Items {
		if item.Ready() {
			n++
		}
	}
	return n
}

// Check validates every entry's times and locates its video under the
// configured root. Invalid entries are logged and kept with their error.
func (d *Driver) Check(ctx context.Context, j *job.Job) (*CheckReport, error) {
	if j == nil {
		return nil, errors.New("batch check requires a job")
	}
	logger := logging.WithContext(ctx, d.logger)
	root := d.cfg.Paths.VideoRoot

	index, err := fileutil.BuildIndex(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfig, "batch", "index video root", root, err)
	}
	logger.Debug("video root indexed",
		logging.String("root", root),
		logging.Int("names", index.Len()),
	)

	report := &CheckReport{Root: root, Targets: append([]string(nil), j.Targets...), Ignored: j.Ignored}
	if len(j.Ignored) > 0 {
		logger.Info("job keys ignored", logging.String("keys", strings.Join(j.Ignored, ", ")))
	}
	for _, problem := range j.Validate() {
		if problem.Video == "" {
			report.Problems = append(report.Problems, problem)
		}
	}

	for _, entry := range j.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := Item{Entry: entry}
		item.Start, item.End, item.Err = entry.Clocks()
		if item.Err == nil {
			path, candidates, lookupErr := index.Lookup(entry.Video)
			if lookupErr != nil {
				item.Err = services.Wrap(services.ErrSourceUnavailable, "batch", "locate video", entry.Video, lookupErr)
			} else {
				item.Path = path
				item.Candidates = candidates
			}
		}
		d.logItem(ctx, item)
		report.Items = append(report.Items, item)
	}
	return report, nil
}

func (d *Driver) logItem(ctx context.Context, item Item) {
	logger := logging.WithContext(services.WithVideo(ctx, item.Entry.Video), d.logger)
	if item.Err != nil {
		logging.WarnWithContext(logger, "job entry rejected; skipping", "entry_rejected",
			logging.Error(item.Err),
			logging.String(logging.FieldErrorHint, entryHint(item.Err)),
			logging.String(logging.FieldImpact, "video is not scanned"),
		)
		return
	}
	if len(item.Candidates) > 1 {
		logging.WarnWithContext(logger, "video name is not unique under root; using first match", "ambiguous_video",
			logging.String("path", item.Path),
			logging.Int("candidates", len(item.Candidates)),
			logging.String(logging.FieldErrorHint, "give the video as a path relative to video_root"),
		)
	}
	logger.Debug("job entry ready",
		logging.String("path", item.Path),
		logging.String("start", item.Start.String()),
		logging.String("end", item.End.String()),
	)
}

func entryHint(err error) string {
	switch {
	case errors.Is(err, services.ErrSourceUnavailable):
		return "check the file name and paths.video_root"
	case errors.Is(err, services.ErrConfig):
		return "times must be HH:MM:SS"
	default:
		return ""
	}
}
