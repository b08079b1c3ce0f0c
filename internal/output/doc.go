// Package output persists scan results for one video: a CSV timestamp log and
// one PNG per match, named by frame index, in a directory derived from the
// video path.
//
// A Writer holds an exclusive flock on its directory for its whole lifetime so
// two scans of the same video cannot interleave rows. The lock file outlives
// the Writer.
package output
