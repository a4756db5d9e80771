package chapter

import "time"

// Origin records where a boundary came from, used for precedence decisions
// and reporting.
type Origin int

const (
	// OriginDetected marks a boundary produced by transcript marker detection.
	OriginDetected Origin = iota
	// OriginCueFile marks a boundary parsed from a user-edited cue sheet.
	OriginCueFile
	// OriginSynthesized marks the whole-file fallback boundary.
	OriginSynthesized
)

func (o Origin) String() string {
	switch o {
	case OriginDetected:
		return "detected"
	case OriginCueFile:
		return "cue-file"
	case OriginSynthesized:
		return "synthesized"
	default:
		return "unknown"
	}
}

// Boundary is one chapter start/end pair. End is zero until Resolve fills
// it from the successor's start (or the audio's total duration for the
// last entry).
type Boundary struct {
	Ordinal int
	Label   string
	Start   time.Duration
	End     time.Duration
	Origin  Origin
}

// Resolved reports whether the boundary's end has been filled.
func (b Boundary) Resolved() bool {
	return b.End > b.Start
}
