package chapterize

import (
	"fmt"

	"chapterize/internal/chapter"
)

// Outcome classifies a completed run for exit-status mapping.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomePartial
	OutcomeFailed
	OutcomeNoBoundaries
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	case OutcomeNoBoundaries:
		return "no boundaries"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ExternalError records a cut or tag failure for one chapter.
type ExternalError struct {
	Ordinal int
	Op      string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("chapter %d: %s: %v", e.Ordinal, e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// ChapterResult is the per-chapter entry in a run report.
type ChapterResult struct {
	Boundary   chapter.Boundary
	OutputPath string
	Err        error
}

// Report accumulates per-chapter results for one run. Entries are keyed
// by ordinal, so the report is deterministic regardless of scheduling.
type Report struct {
	RunID    string
	Source   string
	Chapters []ChapterResult
}

// Succeeded returns the results that produced a tagged output file.
func (r *Report) Succeeded() []ChapterResult {
	var out []ChapterResult
	for _, c := range r.Chapters {
		if c.Err == nil {
			out = append(out, c)
		}
	}
	return out
}

// Failed returns the results that did not complete.
func (r *Report) Failed() []ChapterResult {
	var out []ChapterResult
	for _, c := range r.Chapters {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Outcome classifies the report.
func (r *Report) Outcome() Outcome {
	if len(r.Chapters) == 0 {
		return OutcomeNoBoundaries
	}
	failed := len(r.Failed())
	switch {
	case failed == 0:
		return OutcomeSuccess
	case failed == len(r.Chapters):
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
