package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfig            = errors.New("configuration error")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrDecode            = errors.New("decode failure")
	ErrRecognition       = errors.New("recognition failure")
	ErrOutput            = errors.New("output error")
	ErrBusy              = errors.New("resource busy")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrOutput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ConfigReason enumerates why a job description or time string was rejected.
type ConfigReason string

const (
	ReasonMalformedTime ConfigReason = "malformed_time"
	ReasonMissingField  ConfigReason = "missing_field"
	ReasonInvalidField  ConfigReason = "invalid_field"
	ReasonEmptyTarget   ConfigReason = "empty_target"
	ReasonUnreadableJob ConfigReason = "unreadable_job"
)

// ConfigError reports a rejected configuration value. It matches ErrConfig
// under errors.Is.
type ConfigError struct {
	Reason ConfigReason
	Field  string
	Value  string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(ErrConfig.Error())
	b.WriteString(": ")
	b.WriteString(string(e.Reason))
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError constructs a ConfigError.
func NewConfigError(reason ConfigReason, field, value string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Field: field, Value: value, Err: err}
}

// Status is the batch-level disposition of one job entry.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FailureStatus maps a session error to the disposition the batch driver
// reports. Configuration and availability problems are skipped; everything
// else failed mid-scan.
func FailureStatus(err error) Status {
	switch {
	case err == nil:
		return StatusCompleted
	case errors.Is(err, ErrConfig), errors.Is(err, ErrSourceUnavailable):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "scan failure"
	}
	return strings.Join(parts, ": ")
}
