// Package chapter defines chapter boundaries and resolves detector or
// cue-sheet output into the single validated boundary list that drives
// segmentation. Resolution fills end times, clamps the first chapter to
// the start of the audio, and enforces the ordering, contiguity, and
// coverage invariants downstream code relies on.
package chapter
