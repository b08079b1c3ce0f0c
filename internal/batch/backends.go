package batch

import (
	"context"
	"fmt"

	"framescan/internal/config"
	"framescan/internal/media/ffmpeg"
	"framescan/internal/media/opencv"
	"framescan/internal/ocr/gosseract"
	"framescan/internal/ocr/tesscli"
	"framescan/internal/scan"
	"framescan/internal/services"
)

// SourceOpener opens a frame source for a resolved video path.
type SourceOpener func(ctx context.Context, path string) (scan.FrameSource, error)

// Recognizer is a text recognizer that holds resources until closed.
type Recognizer interface {
	scan.Recognizer
	Close() error
}

// NewSourceOpener returns the opener for the configured frame source backend.
func NewSourceOpener(cfg *config.Config) (SourceOpener, error) {
	switch cfg.Source.Backend {
	case config.SourceOpenCV:
		return func(_ context.Context, path string) (scan.FrameSource, error) {
			src, err := opencv.Open(path)
			if err != nil {
				return nil, err
			}
			return src, nil
		}, nil
	case config.SourceFFmpeg:
		opts := ffmpeg.Options{
			FFmpegBinary:  cfg.FFmpegBinary(),
			FFprobeBinary: cfg.FFprobeBinary(),
		}
		return func(ctx context.Context, path string) (scan.FrameSource, error) {
			src, err := ffmpeg.Open(ctx, path, opts)
			if err != nil {
				return nil, err
			}
			return src, nil
		}, nil
	default:
		return nil, services.Wrap(services.ErrConfig, "batch", "source backend", fmt.Sprintf("unsupported backend %q", cfg.Source.Backend), nil)
	}
}

// NewRecognizer builds the configured text recognizer.
func NewRecognizer(cfg *config.Config) (Recognizer, error) {
	switch cfg.OCR.Backend {
	case config.OCRGosseract:
		rec, err := gosseract.New(cfg.OCR.Language)
		if err != nil {
			return nil, services.Wrap(services.ErrRecognition, "batch", "init recognizer", "gosseract", err)
		}
		return rec, nil
	case config.OCRTesseract:
		return tesscli.New(cfg.TesseractBinary(), cfg.OCR.Language), nil
	default:
		return nil, services.Wrap(services.ErrConfig, "batch", "ocr backend", fmt.Sprintf("unsupported backend %q", cfg.OCR.Backend), nil)
	}
}
