package opencv

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"gocv.io/x/gocv"

	"framescan/internal/services"
)

// Source reads frames from a video file through OpenCV.
type Source struct {
	path       string
	capture    *gocv.VideoCapture
	mat        gocv.Mat
	frameRate  float64
	frameCount int64
	position   int64
	closed     bool
}

// Open opens path for decoding. A missing, unreadable, or zero-rate video is
// reported as services.ErrSourceUnavailable.
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "open", path, err)
	}
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "open", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "open", path+": capture not opened", nil)
	}

	rate := capture.Get(gocv.VideoCaptureFPS)
	if math.IsNaN(rate) || rate <= 0 {
		capture.Close()
		return nil, services.Wrap(services.ErrSourceUnavailable, "source", "open", fmt.Sprintf("%s: unusable frame rate %v", path, rate), nil)
	}
	count := capture.Get(gocv.VideoCaptureFrameCount)
	if math.IsNaN(count) || count < 0 {
		count = 0
	}

	return &Source{
		path:       path,
		capture:    capture,
		mat:        gocv.NewMat(),
		frameRate:  rate,
		frameCount: int64(count),
	}, nil
}

// FrameRate returns the container's reported frames per second.
func (s *Source) FrameRate() float64 { return s.frameRate }

// FrameCount returns the container's reported frame count, or 0 when unknown.
func (s *Source) FrameCount() int64 { return s.frameCount }

// Position returns the index of the frame the next Read will return.
func (s *Source) Position() int64 { return s.position }

// Seek positions the capture so the next Read returns frame.
func (s *Source) Seek(frame int64) error {
	if s.closed {
		return errors.New("opencv source closed")
	}
	if frame < 0 {
		return fmt.Errorf("seek to negative frame %d", frame)
	}
	s.capture.Set(gocv.VideoCapturePosFrames, float64(frame))
	s.position = frame
	return nil
}

// Read decodes the frame at the current position and advances by one. It
// returns io.EOF once the stream has no more frames. Decoding runs in-process
// and cannot be interrupted, so the context is not consulted.
func (s *Source) Read(_ context.Context) (image.Image, error) {
	if s.closed {
		return nil, errors.New("opencv source closed")
	}
	if !s.capture.Read(&s.mat) {
		return nil, io.EOF
	}
	if s.mat.Empty() {
		if s.frameCount > 0 && s.position >= s.frameCount {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("frame %d decoded empty", s.position)
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame %d: %w", s.position, err)
	}
	s.position++
	return img, nil
}

// Close releases the capture and the decode buffer. It is safe to call more
// than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	matErr := s.mat.Close()
	capErr := s.capture.Close()
	return errors.Join(capErr, matErr)
}
