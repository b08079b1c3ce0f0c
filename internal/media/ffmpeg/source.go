package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"framescan/internal/media/ffprobe"
	"framescan/internal/services"
)

// Options configures the binaries a Source executes.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
}

// Source extracts frames from a video file with one ffmpeg call per frame.
// It holds no process between reads; each Read runs under the caller's
// context.
type Source struct {
	path       string
	ffmpeg     string
	frameRate  float64
	frameCount int64
	position   int64
	closed     bool
}

// Open probes path and prepares it for frame extraction. ctx bounds only the
// ffprobe call.
func Open(ctx context.Context, path string, opts Options) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "open", path, err)
	}
	probe, err := ffprobe.Inspect(ctx, opts.FFprobeBinary, path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "probe", path, err)
	}
	if probe.VideoStreamCount() == 0 {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "probe", path+": no video stream", nil)
	}
	rate := probe.FrameRate()
	if rate <= 0 {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "probe", path+": unusable frame rate", nil)
	}
	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Source{
		path:       path,
		ffmpeg:     binary,
		frameRate:  rate,
		frameCount: probe.FrameCount(),
	}, nil
}

// FrameRate returns the primary video stream's frame rate.
func (s *Source) FrameRate() float64 { return s.frameRate }

// FrameCount returns the probed frame count, or 0 when unknown.
func (s *Source) FrameCount() int64 { return s.frameCount }

// Position returns the index of the frame the next Read will return.
func (s *Source) Position() int64 { return s.position }

// Seek moves the cursor; no process is started until Read.
func (s *Source) Seek(frame int64) error {
	if s.closed {
		return errors.New("ffmpeg source closed")
	}
	if frame < 0 {
		return fmt.Errorf("seek to negative frame %d", frame)
	}
	s.position = frame
	return nil
}

// Read extracts the frame at the current position and advances by one.
// Canceling ctx kills the running ffmpeg process.
func (s *Source) Read(ctx context.Context) (image.Image, error) {
	if s.closed {
		return nil, errors.New("ffmpeg source closed")
	}
	if s.frameCount > 0 && s.position >= s.frameCount {
		return nil, io.EOF
	}
	data, err := s.extract(ctx, s.position)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, io.EOF
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", s.position, err)
	}
	s.position++
	return img, nil
}

func (s *Source) extract(ctx context.Context, frame int64) ([]byte, error) {
	seconds := strconv.FormatFloat(float64(frame)/s.frameRate, 'f', 6, 64)
	args := []string{
		"-v", "error",
		"-nostdin",
		"-ss", seconds,
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"-",
	}
	cmd := exec.CommandContext(ctx, s.ffmpeg, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("ffmpeg frame %d: %w", frame, err)
		}
		return nil, fmt.Errorf("ffmpeg frame %d: %w: %s", frame, err, detail)
	}
	return stdout.Bytes(), nil
}

// Close marks the source closed. It holds no process between reads.
func (s *Source) Close() error {
	s.closed = true
	return nil
}
