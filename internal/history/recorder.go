package history

import (
	"context"
	"image"
	"path/filepath"

	"framescan/internal/output"
	"framescan/internal/scan"
)

// Recorder is a scan.Sink that appends each match to a run. Frames are not
// stored; the image path points at the artifact the output writer saves.
type Recorder struct {
	store     *Store
	runID     string
	outputDir string
}

var _ scan.Sink = (*Recorder)(nil)

// Recorder returns a sink bound to runID.
func (s *Store) Recorder(runID, outputDir string) *Recorder {
	return &Recorder{store: s, runID: runID, outputDir: outputDir}
}

// Record inserts the match row.
func (r *Recorder) Record(ctx context.Context, match scan.MatchRecord, _ image.Image) error {
	var imagePath string
	if r.outputDir != "" {
		imagePath = filepath.Join(r.outputDir, output.ImageName(match.FrameIndex))
	}
	_, err := r.store.AddMatch(ctx, Match{
		RunID:      r.runID,
		FrameIndex: match.FrameIndex,
		Timestamp:  match.Timestamp,
		Target:     match.Target,
		ImagePath:  imagePath,
	})
	return err
}

// Close is a no-op; the store outlives the session.
func (r *Recorder) Close() error { return nil }
