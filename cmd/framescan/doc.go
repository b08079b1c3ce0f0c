// Package main hosts the framescan CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the structured
// logger with a per-invocation session id, and hands work to the internal
// packages: batch for scan and check, history for past runs, deps and ffprobe
// for environment inspection. Tables and JSON go to stdout; logs and progress
// go to stderr.
package main
