package job

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"framescan/internal/services"
)

// Load reads a job from path. The format follows the extension: .toml is
// TOML, anything else is JSON. Unreadable files and missing top-level fields
// are reported as ConfigError.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.NewConfigError(services.ReasonUnreadableJob, "", path, err)
	}
	var job *Job
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		job, err = ParseTOML(data)
	} else {
		job, err = ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	job.Path = path
	return job, nil
}

// ParseJSON decodes a JSON job, keeping videos in document order. Top-level
// keys other than text_to_find and videos are recorded in Job.Ignored.
func ParseJSON(data []byte) (*Job, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.NewConfigError(services.ReasonUnreadableJob, "", "", err)
	}

	var rawTargets any
	if raw := doc[fieldTargets]; len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &rawTargets); err != nil {
			return nil, services.NewConfigError(services.ReasonInvalidField, fieldTargets, "", err)
		}
	}
	targets, err := targetsFromValue(rawTargets)
	if err != nil {
		return nil, err
	}

	videos := doc[fieldVideos]
	if len(videos) == 0 || string(videos) == "null" {
		return nil, services.NewConfigError(services.ReasonMissingField, fieldVideos, "", nil)
	}
	entries, err := orderedJSONEntries(videos)
	if err != nil {
		return nil, err
	}
	return &Job{Targets: targets, Entries: entries, Ignored: ignoredKeys(doc)}, nil
}

func orderedJSONEntries(raw json.RawMessage) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos, "", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos, "",
			errors.New("expected an object of video name to [start, end]"))
	}

	var entries []Entry
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos, "", err)
		}
		name, _ := tok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos+"."+name, "", err)
		}
		entry := entryFromValue(name, value)
		// Later duplicates replace earlier ones, as a JSON object would.
		if idx, ok := seen[entry.Video]; ok && entry.Video != "" {
			entries[idx] = entry
			continue
		}
		seen[entry.Video] = len(entries)
		entries = append(entries, entry)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos, "", err)
	}
	return entries, nil
}

// ParseTOML decodes a TOML job. Videos are ordered by name.
func ParseTOML(data []byte) (*Job, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, services.NewConfigError(services.ReasonUnreadableJob, "", "", fmt.Errorf("parse toml: %w", err))
	}
	targets, err := targetsFromValue(doc[fieldTargets])
	if err != nil {
		return nil, err
	}
	rawVideos, ok := doc[fieldVideos]
	if !ok || rawVideos == nil {
		return nil, services.NewConfigError(services.ReasonMissingField, fieldVideos, "", nil)
	}
	videos, ok := rawVideos.(map[string]any)
	if !ok {
		return nil, services.NewConfigError(services.ReasonInvalidField, fieldVideos, "",
			fmt.Errorf("expected a table of video name to [start, end], got %T", rawVideos))
	}
	names := make([]string, 0, len(videos))
	for name := range videos {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, entryFromValue(name, videos[name]))
	}
	return &Job{Targets: targets, Entries: entries, Ignored: ignoredKeys(doc)}, nil
}

// ignoredKeys returns the sorted top-level keys a job does not use.
func ignoredKeys[V any](doc map[string]V) []string {
	var keys []string
	for key := range doc {
		if key != fieldTargets && key != fieldVideos {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
