package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDepsReportsConfiguredBinaries(t *testing.T) {
	env := setupCLITestEnv(t, "LAP")

	out, _, err := runCLI(t, []string{"deps", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	var statuses []depJSON
	if err := json.Unmarshal([]byte(out), &statuses); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	byCommand := map[string]depJSON{}
	for _, s := range statuses {
		byCommand[s.Command] = s
	}
	for _, name := range []string{"ffmpeg", "ffprobe", "tesseract"} {
		s, ok := byCommand[name]
		if !ok || !s.Available || !s.Required {
			t.Fatalf("expected %s to be required and available, got %+v", name, s)
		}
	}

	out, _, err = runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "Frame source: ffmpeg, OCR: tesseract")
}

func TestDepsFailsWhenRequiredBinaryMissing(t *testing.T) {
	env := setupCLITestEnv(t, "LAP")
	if err := os.Remove(filepath.Join(env.binDir, "tesseract")); err != nil {
		t.Fatalf("remove stub: %v", err)
	}
	t.Setenv("PATH", env.binDir)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err == nil {
		t.Fatal("expected missing dependency error")
	}
	requireContains(t, err.Error(), "missing required dependencies")
	requireContains(t, out, "missing")
}
