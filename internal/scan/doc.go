// Package scan implements the frame-sampling and text-correlation engine.
//
// A Session owns one video's Frame Source, a Text Recognizer, the target text
// set, and an output Sink. Run walks the scan window at a fixed stride (seven
// seconds of frames by default), crops every sampled frame to its lower half,
// recognizes text in that region, and on the first target contained in the
// recognized text emits a MatchRecord together with the full frame to the Sink.
//
// The sample position is an explicit value threaded through the loop; the
// Frame Source is only asked to seek when its own read cursor disagrees with
// the next sample, so a one-frame stride degrades to sequential reads.
//
// Matches are flushed one at a time, so memory use does not grow with the
// length of the video. Run releases the source and the sink on every exit
// path, including decode and recognition failures.
package scan
