package tesscli

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	stub := filepath.Join(dir, "tesseract")
	argsLog := filepath.Join(dir, "args.log")
	script := "#!/bin/sh\necho \"$@\" > " + argsLog + "\n" + body
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return stub, argsLog
}

func TestRecognizeReturnsStdout(t *testing.T) {
	stub, argsLog := writeStub(t, "cat > /dev/null\nprintf 'LAP 1\\nP1 HAM\\n'\n")
	rec := New(stub, "deu")

	text, err := rec.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 4)))
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !strings.Contains(text, "LAP 1") {
		t.Fatalf("unexpected text: %q", text)
	}
	args, err := os.ReadFile(argsLog)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if strings.TrimSpace(string(args)) != "stdin stdout -l deu" {
		t.Fatalf("unexpected args: %q", args)
	}
}

func TestRecognizeSurfacesFailure(t *testing.T) {
	stub, _ := writeStub(t, "echo 'Failed loading language' >&2\nexit 1\n")
	rec := New(stub, "")

	_, err := rec.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 4)))
	if err == nil || !strings.Contains(err.Error(), "Failed loading language") {
		t.Fatalf("expected tesseract stderr in error, got %v", err)
	}
}

func TestRecognizeHonoursCanceledContext(t *testing.T) {
	stub, _ := writeStub(t, "sleep 5\n")
	rec := New(stub, "eng")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rec.Recognize(ctx, image.NewRGBA(image.Rect(0, 0, 8, 4))); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestNewDefaults(t *testing.T) {
	rec := New(" ", " ")
	if rec.binary != "tesseract" || rec.language != "eng" {
		t.Fatalf("unexpected defaults: %+v", rec)
	}
}
