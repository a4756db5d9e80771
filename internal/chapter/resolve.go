package chapter

import (
	"errors"
	"fmt"
	"time"

	"chapterize/internal/timecode"
)

// ErrNoBoundaries is returned when neither detection nor a cue sheet
// produced any boundary and no whole-file fallback is configured.
var ErrNoBoundaries = errors.New("no chapter boundaries found")

// OverlapError describes two boundaries that violate time ordering.
type OverlapError struct {
	Prev Boundary
	Next Boundary
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("boundaries overlap: %q starts at %s, before %q ends",
		e.Next.Label, timecode.FormatClock(e.Next.Start), e.Prev.Label)
}

// ResolveOptions configures boundary resolution.
type ResolveOptions struct {
	// Total is the audio file's full duration; the last boundary ends here.
	Total time.Duration
	// FallbackWholeFile synthesizes a single boundary spanning the entire
	// file when the input list is empty.
	FallbackWholeFile bool
	// FallbackLabel names the synthesized boundary; defaults to "Chapter 01".
	FallbackLabel string
}

// Resolve turns an unresolved boundary list into the authoritative,
// validated sequence consumed downstream. The input is never mutated.
//
// The resolved list is strictly ordered by start, contiguous, covers
// [0, Total], carries dense 1..N ordinals, and every label is non-empty.
func Resolve(list []Boundary, opts ResolveOptions) ([]Boundary, error) {
	if opts.Total <= 0 {
		return nil, fmt.Errorf("resolve boundaries: invalid total duration %v", opts.Total)
	}

	if len(list) == 0 {
		if !opts.FallbackWholeFile {
			return nil, ErrNoBoundaries
		}
		label := opts.FallbackLabel
		if label == "" {
			label = "Chapter 01"
		}
		return []Boundary{{
			Ordinal: 1,
			Label:   label,
			Start:   0,
			End:     opts.Total,
			Origin:  OriginSynthesized,
		}}, nil
	}

	resolved := make([]Boundary, len(list))
	copy(resolved, list)

	// The opening of the file always belongs to the first chapter, even
	// when its marker was spoken a few seconds in.
	resolved[0].Start = 0

	for i := range resolved {
		if i+1 < len(resolved) {
			resolved[i].End = resolved[i+1].Start
		} else {
			resolved[i].End = opts.Total
		}
		resolved[i].Ordinal = i + 1
	}

	if err := validate(resolved, opts.Total); err != nil {
		return nil, err
	}
	return resolved, nil
}

func validate(list []Boundary, total time.Duration) error {
	for i, b := range list {
		if b.Label == "" {
			return fmt.Errorf("boundary %d has an empty label", b.Ordinal)
		}
		if b.Ordinal != i+1 {
			return fmt.Errorf("boundary ordinals not dense: got %d at position %d", b.Ordinal, i+1)
		}
		if b.Start < 0 {
			return fmt.Errorf("boundary %d starts before zero: %v", b.Ordinal, b.Start)
		}
		if b.End <= b.Start {
			if i > 0 {
				return &OverlapError{Prev: list[i-1], Next: b}
			}
			return fmt.Errorf("boundary %d is empty: start %s, end %s",
				b.Ordinal, timecode.FormatClock(b.Start), timecode.FormatClock(b.End))
		}
		if i > 0 && list[i-1].End != b.Start {
			return &OverlapError{Prev: list[i-1], Next: b}
		}
	}
	if list[0].Start != 0 {
		return fmt.Errorf("first boundary starts at %s, not at zero", timecode.FormatClock(list[0].Start))
	}
	if last := list[len(list)-1]; last.End != total {
		return fmt.Errorf("last boundary ends at %s, not at total duration %s",
			timecode.FormatClock(last.End), timecode.FormatClock(total))
	}
	return nil
}
