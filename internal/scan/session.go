package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"framescan/internal/logging"
	"framescan/internal/services"
	"framescan/internal/timecode"
)

// DefaultStrideSeconds is the spacing between inspected samples.
const DefaultStrideSeconds = 7

// Options tunes a Session. The zero value matches the reference behaviour.
type Options struct {
	// StrideSeconds overrides DefaultStrideSeconds when positive.
	StrideSeconds float64
	// SkipRecognitionErrors treats a recognizer failure as "no match" for that
	// sample instead of aborting the session.
	SkipRecognitionErrors bool
	Logger                *slog.Logger
	Observer              Observer
}

// Summary reports what a session did.
type Summary struct {
	Samples   int
	Matches   int
	Stride    int64
	LastFrame int64
	// Exhausted is set when the source ran out of frames before the window end.
	Exhausted bool
	Elapsed   time.Duration
}

// Session scans one video window. It is not safe for concurrent use and may
// only be run once.
type Session struct {
	source     FrameSource
	recognizer Recognizer
	sink       Sink
	window     timecode.Window
	targets    []string
	stride     int64
	opts       Options
	logger     *slog.Logger
	ran        bool
}

// NewSession takes ownership of source and sink; both are closed when Run
// returns.
func NewSession(source FrameSource, recognizer Recognizer, sink Sink, window timecode.Window, targets []string, opts Options) (*Session, error) {
	if source == nil {
		return nil, errors.New("scan session requires a frame source")
	}
	if recognizer == nil {
		return nil, errors.New("scan session requires a text recognizer")
	}
	if sink == nil {
		return nil, errors.New("scan session requires an output sink")
	}
	if window.FrameRate <= 0 {
		return nil, fmt.Errorf("scan session requires a positive frame rate, got %v", window.FrameRate)
	}
	strideSeconds := opts.StrideSeconds
	if strideSeconds <= 0 {
		strideSeconds = DefaultStrideSeconds
	}
	return &Session{
		source:     source,
		recognizer: recognizer,
		sink:       sink,
		window:     window,
		targets:    append([]string(nil), targets...),
		stride:     timecode.Stride(window.FrameRate, strideSeconds),
		opts:       opts,
		logger:     logging.NewComponentLogger(opts.Logger, "scan"),
	}, nil
}

// Stride returns the frame increment between samples.
func (s *Session) Stride() int64 {
	return s.stride
}

// Run executes the sampling loop. A source that runs dry before the window
// end completes normally; decode, recognition, and output failures abort the
// session and are returned wrapped with the matching services marker.
func (s *Session) Run(ctx context.Context) (summary Summary, err error) {
	if s.ran {
		return Summary{}, errors.New("scan session already ran")
	}
	s.ran = true

	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()
	summary.Stride = s.stride
	summary.LastFrame = -1

	defer func() {
		if closeErr := s.close(); closeErr != nil {
			err = errors.Join(err, services.Wrap(services.ErrOutput, "scan", "close", "", closeErr))
		}
		summary.Elapsed = time.Since(started)
	}()

	logger.Info("scan started",
		logging.Int64("start_frame", s.window.StartFrame),
		logging.Int64("end_frame", s.window.EndFrame),
		logging.Float64("frame_rate", s.window.FrameRate),
		logging.Int64("stride", s.stride),
		logging.Int("targets", len(s.targets)),
	)

	if s.window.Empty() {
		logger.Info("scan window is empty; nothing to sample")
		return summary, nil
	}
	if total := s.source.FrameCount(); total > 0 && s.window.StartFrame > total {
		logger.Info("scan window starts past the end of the video",
			logging.Int64("frame_count", total))
		summary.Exhausted = true
		return summary, nil
	}
	if err := s.source.Seek(s.window.StartFrame); err != nil {
		return summary, services.Wrap(services.ErrDecode, "scan", "seek", fmt.Sprintf("frame %d", s.window.StartFrame), err)
	}

	for pos := s.window.StartFrame; pos <= s.window.EndFrame; pos = s.advance(pos) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		matched, exhausted, err := s.sample(ctx, logger, pos)
		if err != nil {
			return summary, err
		}
		if exhausted {
			logger.Info("video ended before the scan window", logging.Frame(pos))
			summary.Exhausted = true
			break
		}
		summary.Samples++
		summary.LastFrame = pos
		if matched {
			summary.Matches++
		}
		if s.opts.Observer != nil {
			s.opts.Observer.Sampled(Progress{
				Position: pos,
				Start:    s.window.StartFrame,
				End:      s.window.EndFrame,
				Matched:  matched,
			})
		}
	}

	logger.Info("scan complete",
		logging.Int("samples", summary.Samples),
		logging.Int("matches", summary.Matches),
		logging.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}

func (s *Session) advance(pos int64) int64 {
	return pos + s.stride
}

// sample inspects one frame. exhausted reports end of stream.
func (s *Session) sample(ctx context.Context, logger *slog.Logger, pos int64) (matched, exhausted bool, err error) {
	if s.source.Position() != pos {
		if err := s.source.Seek(pos); err != nil {
			return false, false, services.Wrap(services.ErrDecode, "scan", "seek", fmt.Sprintf("frame %d", pos), err)
		}
	}
	frame, err := s.source.Read(ctx)
	if errors.Is(err, io.EOF) {
		return false, true, nil
	}
	if err != nil {
		return false, false, services.Wrap(services.ErrDecode, "scan", "read", fmt.Sprintf("frame %d", pos), err)
	}
	if frame == nil {
		return false, false, services.Wrap(services.ErrDecode, "scan", "read", fmt.Sprintf("frame %d: empty image", pos), nil)
	}

	text, err := s.recognizer.Recognize(ctx, LowerHalf(frame))
	if err != nil {
		if !s.opts.SkipRecognitionErrors {
			return false, false, services.Wrap(services.ErrRecognition, "scan", "recognize", fmt.Sprintf("frame %d", pos), err)
		}
		logging.WarnWithContext(logger, "text recognition failed; treating sample as no match", "recognition_skipped",
			logging.Frame(pos),
			logging.Error(err),
			logging.String(logging.FieldImpact, "matches in this sample are missed"),
		)
		return false, false, nil
	}

	target, ok := FirstMatch(text, s.targets)
	if !ok {
		logger.Debug("no target in sample", logging.Frame(pos))
		return false, false, nil
	}

	record := MatchRecord{
		FrameIndex: pos,
		Timestamp:  s.window.Timestamp(pos),
		Target:     target,
	}
	logger.Info("text found",
		logging.Timestamp(record.Timestamp),
		logging.Frame(pos),
		logging.Target(target),
	)
	if err := s.sink.Record(ctx, record, frame); err != nil {
		return true, false, services.Wrap(services.ErrOutput, "scan", "record", fmt.Sprintf("frame %d", pos), err)
	}
	return true, false, nil
}

func (s *Session) close() error {
	var errs []error
	if err := s.source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close source: %w", err))
	}
	if err := s.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sink: %w", err))
	}
	return errors.Join(errs...)
}
