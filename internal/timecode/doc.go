// Package timecode converts between time.Duration and the sexagesimal
// timecode strings used by SRT transcripts, cue sheets, and ffmpeg seek
// arguments.
package timecode
