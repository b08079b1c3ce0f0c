package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framescan/internal/config"
	"framescan/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	binDir     string
}

// setupCLITestEnv writes a config that drives the ffmpeg frame source and the
// tesseract CLI recognizer through stub executables. The stubs describe a
// 30 frame, 1 fps video and recognize the text in recognizeOutput.
func setupCLITestEnv(t *testing.T, recognizeOutput string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithBackends(config.SourceFFmpeg, config.OCRTesseract),
		testsupport.WithStubbedBinaries(),
	)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	binDir := filepath.Join(base, "bin")

	framePath := filepath.Join(base, "frame.png")
	writeFramePNG(t, framePath)

	writeStub(t, binDir, "ffprobe", `cat <<'JSON'
{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":64,"height":48,"avg_frame_rate":"1/1","nb_frames":"30"}],
 "format":{"filename":"stub","nb_streams":1,"duration":"30.000000","size":"4096","bit_rate":"1000"}}
JSON
`)
	writeStub(t, binDir, "ffmpeg", fmt.Sprintf("cat %q\n", framePath))
	writeStub(t, binDir, "tesseract", fmt.Sprintf("cat >/dev/null\nprintf '%%s\\n' %q\n", recognizeOutput))

	if err := os.MkdirAll(cfg.Paths.VideoRoot, 0o755); err != nil {
		t.Fatalf("mkdir video root: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, binDir: binDir}
}

func writeStub(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

func writeFramePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 24; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
video_root = %q
log_dir = %q
history_db = %q

[scan]
stride_seconds = %g

[source]
backend = %q

[ocr]
backend = %q

[output]
root = %q

[history]
enabled = %t

[logging]
format = "json"
level = "debug"
`,
		cfg.Paths.VideoRoot,
		cfg.Paths.LogDir,
		cfg.Paths.HistoryDB,
		cfg.Scan.StrideSeconds,
		cfg.Source.Backend,
		cfg.OCR.Backend,
		cfg.Output.Root,
		cfg.History.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) addVideo(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(env.cfg.Paths.VideoRoot, rel)
	testsupport.WriteFile(t, path, 128)
	return path
}

func (env *cliTestEnv) writeJob(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
