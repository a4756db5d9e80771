// Package transcript loads SRT-style timed-text files produced by the
// speech-to-text engine into ordered cue sequences for marker detection.
package transcript
