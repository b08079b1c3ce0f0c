package job

import (
	"fmt"
	"strings"

	"framescan/internal/services"
	"framescan/internal/timecode"
)

const (
	fieldTargets = "text_to_find"
	fieldVideos  = "videos"
)

// Job is a validated-shape batch description.
type Job struct {
	// Path is the file the job was loaded from, if any.
	Path    string
	Targets []string
	Entries []Entry
	// Ignored lists unrecognized top-level keys, which are skipped.
	Ignored []string
}

// Entry is one video and its scan window as written in the job.
type Entry struct {
	Video string
	Start string
	End   string
	// Err holds a structural problem found while decoding this entry.
	Err error
}

// Clocks parses the entry's start and end times.
func (e Entry) Clocks() (timecode.Clock, timecode.Clock, error) {
	if e.Err != nil {
		return timecode.Clock{}, timecode.Clock{}, e.Err
	}
	start, err := timecode.ParseClock(e.Start)
	if err != nil {
		return timecode.Clock{}, timecode.Clock{}, withField(err, e.field("start"))
	}
	end, err := timecode.ParseClock(e.End)
	if err != nil {
		return timecode.Clock{}, timecode.Clock{}, withField(err, e.field("end"))
	}
	return start, end, nil
}

func (e Entry) field(part string) string {
	return fmt.Sprintf("%s.%s.%s", fieldVideos, e.Video, part)
}

// Problem is a validation finding. Video is empty for job-level problems.
type Problem struct {
	Video string
	Err   error
}

func (p Problem) Error() string {
	if p.Video == "" {
		return p.Err.Error()
	}
	return p.Video + ": " + p.Err.Error()
}

func (p Problem) Unwrap() error { return p.Err }

// Validate checks every entry without touching the filesystem and returns
// one problem per rejected entry, in job order. An empty target list is
// reported as a job-level problem.
func (j *Job) Validate() []Problem {
	var problems []Problem
	if len(j.Targets) == 0 {
		problems = append(problems, Problem{Err: services.NewConfigError(services.ReasonEmptyTarget, fieldTargets, "", fmt.Errorf("no text to find"))})
	}
	for _, entry := range j.Entries {
		if _, _, err := entry.Clocks(); err != nil {
			problems = append(problems, Problem{Video: entry.Video, Err: err})
		}
	}
	return problems
}

func withField(err error, field string) error {
	if cfgErr, ok := err.(*services.ConfigError); ok && cfgErr.Field == "" {
		copied := *cfgErr
		copied.Field = field
		return &copied
	}
	return err
}

func targetsFromValue(value any) ([]string, error) {
	if value == nil {
		return nil, services.NewConfigError(services.ReasonMissingField, fieldTargets, "", nil)
	}
	list, ok := value.([]any)
	if !ok {
		return nil, services.NewConfigError(services.ReasonInvalidField, fieldTargets, "",
			fmt.Errorf("expected a list of strings, got %T", value))
	}
	targets := make([]string, 0, len(list))
	for i, item := range list {
		text, ok := item.(string)
		if !ok {
			return nil, services.NewConfigError(services.ReasonInvalidField, fmt.Sprintf("%s[%d]", fieldTargets, i), "",
				fmt.Errorf("expected a string, got %T", item))
		}
		if text == "" {
			return nil, services.NewConfigError(services.ReasonEmptyTarget, fmt.Sprintf("%s[%d]", fieldTargets, i), "", nil)
		}
		targets = append(targets, text)
	}
	return targets, nil
}

func entryFromValue(name string, value any) Entry {
	entry := Entry{Video: strings.TrimSpace(name)}
	if entry.Video == "" {
		entry.Err = services.NewConfigError(services.ReasonInvalidField, fieldVideos, name, fmt.Errorf("empty video name"))
		return entry
	}
	list, ok := value.([]any)
	if !ok || len(list) != 2 {
		entry.Err = services.NewConfigError(services.ReasonInvalidField, fieldVideos+"."+entry.Video, "",
			fmt.Errorf("expected [start, end] pair"))
		return entry
	}
	start, okStart := list[0].(string)
	end, okEnd := list[1].(string)
	if !okStart || !okEnd {
		entry.Err = services.NewConfigError(services.ReasonMalformedTime, fieldVideos+"."+entry.Video, "",
			fmt.Errorf("times must be HH:MM:SS strings"))
		return entry
	}
	entry.Start, entry.End = start, end
	return entry
}
