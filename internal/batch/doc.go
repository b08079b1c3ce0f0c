// Package batch drives scan sessions for a job description.
//
// Check resolves every job entry against the configured video root and
// parses its time window without fail-fast: each entry ends up either ready
// to scan or carrying its own diagnostic. Run executes the ready entries one
// after another, each in an independent session with its own output
// directory, and reports a completed, skipped, or failed disposition per
// entry.
package batch
