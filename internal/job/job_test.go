package job

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framescan/internal/services"
)

func TestParseJSONKeepsDocumentOrder(t *testing.T) {
	data := []byte(`{
  "text_to_find": ["LAP 1", "FINAL LAP"],
  "videos": {
    "zeta.mp4": ["00:00:00", "00:10:00"],
    "alpha.mp4": ["00:01:00", "00:02:30"]
  }
}`)
	job, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if len(job.Targets) != 2 || job.Targets[0] != "LAP 1" || job.Targets[1] != "FINAL LAP" {
		t.Fatalf("unexpected targets: %v", job.Targets)
	}
	if len(job.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(job.Entries))
	}
	if job.Entries[0].Video != "zeta.mp4" || job.Entries[1].Video != "alpha.mp4" {
		t.Fatalf("expected document order, got %s, %s", job.Entries[0].Video, job.Entries[1].Video)
	}
	start, end, err := job.Entries[1].Clocks()
	if err != nil {
		t.Fatalf("Clocks returned error: %v", err)
	}
	if start.TotalSeconds() != 60 || end.TotalSeconds() != 150 {
		t.Fatalf("unexpected clocks %v %v", start, end)
	}
	if problems := job.Validate(); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestParseJSONEntryProblemsDoNotFailJob(t *testing.T) {
	data := []byte(`{
  "text_to_find": ["LAP 1"],
  "videos": {
    "good.mp4": ["00:00:00", "00:00:30"],
    "badtime.mp4": ["00:61:00", "00:00:30"],
    "badshape.mp4": ["00:00:00"],
    "numbers.mp4": [0, 30]
  }
}`)
	job, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	problems := job.Validate()
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(problems), problems)
	}
	wantVideos := []string{"badtime.mp4", "badshape.mp4", "numbers.mp4"}
	wantReasons := []services.ConfigReason{services.ReasonMalformedTime, services.ReasonInvalidField, services.ReasonMalformedTime}
	for i, p := range problems {
		if p.Video != wantVideos[i] {
			t.Fatalf("problem %d video = %q, want %q", i, p.Video, wantVideos[i])
		}
		var cfgErr *services.ConfigError
		if !errors.As(p, &cfgErr) {
			t.Fatalf("problem %d is not a ConfigError: %v", i, p)
		}
		if cfgErr.Reason != wantReasons[i] {
			t.Fatalf("problem %d reason = %s, want %s", i, cfgErr.Reason, wantReasons[i])
		}
		if !errors.Is(p, services.ErrConfig) {
			t.Fatalf("problem %d should match ErrConfig", i)
		}
	}
	var cfgErr *services.ConfigError
	errors.As(problems[0], &cfgErr)
	if cfgErr.Field != "videos.badtime.mp4.start" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestParseJSONRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		reason services.ConfigReason
	}{
		{name: "not json", data: `{`, reason: services.ReasonUnreadableJob},
		{name: "missing targets", data: `{"videos": {}}`, reason: services.ReasonMissingField},
		{name: "missing videos", data: `{"text_to_find": ["x"]}`, reason: services.ReasonMissingField},
		{name: "targets not list", data: `{"text_to_find": "LAP", "videos": {}}`, reason: services.ReasonInvalidField},
		{name: "empty target string", data: `{"text_to_find": ["LAP", ""], "videos": {}}`, reason: services.ReasonEmptyTarget},
		{name: "videos not object", data: `{"text_to_find": ["x"], "videos": []}`, reason: services.ReasonInvalidField},
		{name: "top level not object", data: `["x"]`, reason: services.ReasonUnreadableJob},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.data))
			var cfgErr *services.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Reason != tc.reason {
				t.Fatalf("reason = %s, want %s (%v)", cfgErr.Reason, tc.reason, err)
			}
		})
	}
}

func TestEmptyTargetListIsJobProblem(t *testing.T) {
	job, err := ParseJSON([]byte(`{"text_to_find": [], "videos": {"a.mp4": ["00:00:00", "00:00:10"]}}`))
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	problems := job.Validate()
	if len(problems) != 1 || problems[0].Video != "" {
		t.Fatalf("expected single job-level problem, got %v", problems)
	}
	var cfgErr *services.ConfigError
	if !errors.As(problems[0], &cfgErr) || cfgErr.Reason != services.ReasonEmptyTarget {
		t.Fatalf("expected empty target reason, got %v", problems[0])
	}
}

func TestParseJSONDuplicateVideoKeepsLastValue(t *testing.T) {
	job, err := ParseJSON([]byte(`{"text_to_find": ["x"], "videos": {"a.mp4": ["00:00:00", "00:00:10"], "b.mp4": ["00:00:00", "00:00:05"], "a.mp4": ["00:00:20", "00:00:30"]}}`))
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if len(job.Entries) != 2 || job.Entries[0].Video != "a.mp4" || job.Entries[0].Start != "00:00:20" {
		t.Fatalf("unexpected entries: %+v", job.Entries)
	}
}

func TestParseTOMLSortsByName(t *testing.T) {
	data := []byte(`
text_to_find = ["LAP 1"]

[videos]
"zeta.mp4" = ["00:00:00", "00:10:00"]
"alpha.mp4" = ["00:01:00", "00:02:30"]
`)
	job, err := ParseTOML(data)
	if err != nil {
		t.Fatalf("ParseTOML returned error: %v", err)
	}
	if len(job.Entries) != 2 || job.Entries[0].Video != "alpha.mp4" || job.Entries[1].Video != "zeta.mp4" {
		t.Fatalf("unexpected entries: %+v", job.Entries)
	}
	if job.Entries[1].End != "00:10:00" {
		t.Fatalf("unexpected end %q", job.Entries[1].End)
	}
}

func TestParseTOMLMissingVideos(t *testing.T) {
	_, err := ParseTOML([]byte(`text_to_find = ["x"]`))
	var cfgErr *services.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Reason != services.ReasonMissingField {
		t.Fatalf("expected missing field, got %v", err)
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "job.json")
	tomlPath := filepath.Join(dir, "job.toml")
	if err := os.WriteFile(jsonPath, []byte(`{"text_to_find": ["x"], "videos": {"a.mp4": ["00:00:00", "00:00:10"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tomlPath, []byte("text_to_find = [\"x\"]\n[videos]\n\"a.mp4\" = [\"00:00:00\", \"00:00:10\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{jsonPath, tomlPath} {
		job, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) returned error: %v", path, err)
		}
		if job.Path != path || len(job.Entries) != 1 {
			t.Fatalf("unexpected job from %s: %+v", path, job)
		}
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	var cfgErr *services.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Reason != services.ReasonUnreadableJob {
		t.Fatalf("expected unreadable job, got %v", err)
	}
}

func TestUnknownTopLevelKeysAreIgnored(t *testing.T) {
	j, err := ParseJSON([]byte(`{"comment": "season 3", "text_to_find": ["LAP"], "videos": {"race.mp4": ["00:00:00", "00:00:10"]}, "author": "ops"}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(j.Entries) != 1 || j.Entries[0].Video != "race.mp4" || len(j.Targets) != 1 {
		t.Fatalf("unexpected job: %+v", j)
	}
	if got := strings.Join(j.Ignored, ","); got != "author,comment" {
		t.Fatalf("Ignored = %q, want author,comment", got)
	}
	if problems := j.Validate(); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}

	j, err = ParseTOML([]byte("notes = \"x\"\ntext_to_find = [\"LAP\"]\n\n[videos]\n\"race.mp4\" = [\"00:00:00\", \"00:00:10\"]\n"))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	if len(j.Entries) != 1 || strings.Join(j.Ignored, ",") != "notes" {
		t.Fatalf("unexpected toml job: %+v", j)
	}
}
