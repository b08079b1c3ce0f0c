// Package ffmpeg decodes individual video frames by shelling out to ffmpeg.
//
// Stream metadata (frame rate and count) comes from ffprobe. Each Read asks
// ffmpeg for exactly one PNG frame at the current index's presentation time,
// so the backend needs no cgo and works wherever the binaries are installed.
package ffmpeg
