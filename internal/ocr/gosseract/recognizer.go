// Package gosseract recognizes text in-process through libtesseract.
package gosseract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"framescan/internal/ocr"
)

// Recognizer wraps a single tesseract client. The client is not reentrant, so
// calls are serialized.
type Recognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a recognizer for the given tesseract language code (for
// example "eng").
func New(language string) (*Recognizer, error) {
	client := gosseract.NewClient()
	language = strings.TrimSpace(language)
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set tesseract language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("set tesseract page segmentation: %w", err)
	}
	return &Recognizer{client: client}, nil
}

// Recognize returns the raw text tesseract reads from region.
func (r *Recognizer) Recognize(ctx context.Context, region image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := ocr.EncodePNG(region)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return "", errors.New("gosseract recognizer closed")
	}
	if err := r.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set tesseract image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract text: %w", err)
	}
	return text, nil
}

// Close releases the tesseract client.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}
