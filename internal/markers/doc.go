// Package markers detects spoken chapter boundaries in a transcript.
// Matching is a pure function over the cue sequence and an immutable rule
// set of marker phrases and false-positive suppressions.
package markers
