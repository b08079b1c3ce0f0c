// Package job loads batch job descriptions.
//
// A job names the text to look for and, per video file, the HH:MM:SS window to
// scan:
//
//	{
//	  "text_to_find": ["LAP 1", "FINAL LAP"],
//	  "videos": {"race.mp4": ["00:00:00", "01:30:00"]}
//	}
//
// JSON jobs keep the document order of videos. TOML jobs carry the same keys
// (a text_to_find array and a [videos] table) and are ordered by video name.
// Other top-level keys, such as a comment, are skipped and listed in
// Job.Ignored. Structural problems with one video entry are kept on that
// entry so the rest of the batch can proceed.
package job
