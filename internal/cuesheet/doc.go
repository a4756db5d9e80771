// Package cuesheet serializes chapter boundaries into an editable track
// listing and parses the edited file back. The format is a simplified cue
// dialect: one FILE header, then TRACK/TITLE/START records (END is a
// display hint). A cue sheet supplied for a run is ground truth and
// replaces transcript detection entirely.
package cuesheet
