// Package history records scan runs and their match events in SQLite.
//
// A run row is inserted when a session starts, match rows are appended
// through a scan.Sink as matches happen, and the row is finalized with the
// session's disposition and summary when it ends.
package history
