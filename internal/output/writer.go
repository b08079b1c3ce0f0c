package output

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"framescan/internal/scan"
	"framescan/internal/services"
	"framescan/internal/timecode"
)

const (
	// HeaderTimestamp is the single column of the timestamp log.
	HeaderTimestamp = "Timestamp"
	lockFileName    = ".framescan.lock"
)

// Dir returns the output directory for videoPath. With an empty root the
// directory sits next to the video (the path minus its extension); otherwise
// it is root joined with the video's base name minus its extension.
func Dir(videoPath, root string) string {
	trimmed := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	if strings.TrimSpace(root) == "" {
		return trimmed
	}
	return filepath.Join(root, filepath.Base(trimmed))
}

// ImageName returns the artifact file name for a frame index.
func ImageName(frame int64) string {
	return strconv.FormatInt(frame, 10) + ".png"
}

// Writer is a scan.Sink that writes rows and frames as they arrive.
type Writer struct {
	dir     string
	logPath string
	lock    *flock.Flock
	file    *os.File
	csv     *csv.Writer
	rows    int
	closed  bool
}

var _ scan.Sink = (*Writer)(nil)

// Open creates dir, takes its lock, and starts a fresh timestamp log named
// logName with the header row already flushed. An existing log is replaced.
func Open(dir, logName string) (*Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrOutput, "output", "open", "empty output directory", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrOutput, "output", "create directory", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrOutput, "output", "acquire lock", dir, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "output", "acquire lock", fmt.Sprintf("%s is in use by another scan", dir), nil)
	}

	logPath := filepath.Join(dir, logName)
	file, err := os.Create(logPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrOutput, "output", "create log", logPath, err)
	}
	w := &Writer{
		dir:     dir,
		logPath: logPath,
		lock:    lock,
		file:    file,
		csv:     csv.NewWriter(file),
	}
	if err := w.writeRow(HeaderTimestamp); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Dir returns the directory the writer owns.
func (w *Writer) Dir() string { return w.dir }

// LogPath returns the CSV path.
func (w *Writer) LogPath() string { return w.logPath }

// Rows returns the number of data rows written.
func (w *Writer) Rows() int { return w.rows }

// Record appends the match timestamp to the log and saves frame as
// <frame_index>.png. Both are on disk before Record returns.
func (w *Writer) Record(_ context.Context, match scan.MatchRecord, frame image.Image) error {
	if w.closed {
		return errors.New("output writer closed")
	}
	if err := w.writeRow(timecode.FormatDuration(match.Timestamp)); err != nil {
		return err
	}
	w.rows++
	if frame == nil {
		return nil
	}
	return writePNG(filepath.Join(w.dir, ImageName(match.FrameIndex)), frame)
}

// Close flushes the log and releases the directory lock. The lock file is
// left in place so later scans always lock the same file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		errs = append(errs, fmt.Errorf("flush log: %w", err))
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close log: %w", err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}
	return errors.Join(errs...)
}

func (w *Writer) writeRow(value string) error {
	if err := w.csv.Write([]string{value}); err != nil {
		return services.Wrap(services.ErrOutput, "output", "write log", w.logPath, err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return services.Wrap(services.ErrOutput, "output", "flush log", w.logPath, err)
	}
	return nil
}

func writePNG(path string, frame image.Image) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return services.Wrap(services.ErrOutput, "output", "create image", path, err)
	}
	if err := png.Encode(file, frame); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrOutput, "output", "encode image", path, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrOutput, "output", "close image", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrOutput, "output", "rename image", path, err)
	}
	return nil
}
