// Package logging assembles structured slog loggers and formatting helpers used
// across framescan.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scan code automatically tags
// log lines with the video name, history run id, and the CLI session id. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
