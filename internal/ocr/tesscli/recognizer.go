// Package tesscli recognizes text by piping PNG regions to the tesseract
// command-line tool.
package tesscli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"framescan/internal/ocr"
)

// Recognizer runs one tesseract process per region.
type Recognizer struct {
	binary   string
	language string
}

// New returns a recognizer that executes binary with the given language.
func New(binary, language string) *Recognizer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "tesseract"
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "eng"
	}
	return &Recognizer{binary: binary, language: language}
}

// Recognize returns tesseract's stdout for region.
func (r *Recognizer) Recognize(ctx context.Context, region image.Image) (string, error) {
	data, err := ocr.EncodePNG(region)
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, r.binary, "stdin", "stdout", "-l", r.language)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, detail)
	}
	return stdout.String(), nil
}

// Close is a no-op; no process outlives a call.
func (r *Recognizer) Close() error { return nil }
