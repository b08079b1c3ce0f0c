// Package timecode converts between operator-supplied HH:MM:SS clock strings,
// frame indices, and elapsed durations at a fixed frame rate.
//
// Conversions are deliberately lossy below one frame: ToFrame floors and
// FrameToDuration rounds to the microsecond, so a round trip may drift by one
// frame. FormatDuration renders durations as H:MM:SS[.ffffff], the layout the
// timestamp log uses.
package timecode
