package markers

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"chapterize/internal/chapter"
	"chapterize/internal/transcript"
)

// Marker phrases that take an ordinal in their label ("Chapter 03").
// Prologue/epilogue style markers keep the bare phrase.
var numberedPhrases = map[string]bool{
	"chapter": true,
	"kapitel": true,
}

var labelCaser = cases.Title(language.Und)

// Detect scans transcript cues for spoken chapter markers and returns
// unresolved boundaries in time order. Detection is advisory: an empty
// result is valid and the caller decides whether to fall back to a cue
// sheet or a whole-file chapter.
//
// A cue matches when it contains a marker phrase and no phrase from the
// ignore list; the ignore list is checked against the full cue text, not
// just the matched token. Matches within MergeWindow of the previously
// accepted one are folded into it, since one spoken marker frequently
// spans several cues.
func Detect(cues []transcript.Cue, rules RuleSet) []chapter.Boundary {
	var boundaries []chapter.Boundary
	chapterCount := 0
	var lastStart time.Duration
	accepted := false

	for _, cue := range cues {
		text := strings.ToLower(cue.Text)
		phrase := matchMarker(text, rules.Markers)
		if phrase == "" {
			continue
		}
		if containsAny(text, rules.Excluded) {
			continue
		}
		if accepted && cue.Start-lastStart <= rules.MergeWindow {
			continue
		}

		var label string
		if numberedPhrases[phrase] {
			chapterCount++
			label = fmt.Sprintf("Chapter %02d", chapterCount)
		} else {
			label = labelCaser.String(phrase)
		}

		boundaries = append(boundaries, chapter.Boundary{
			Ordinal: len(boundaries) + 1,
			Label:   label,
			Start:   cue.Start,
			Origin:  chapter.OriginDetected,
		})
		lastStart = cue.Start
		accepted = true
	}

	return boundaries
}

func matchMarker(text string, markers []string) string {
	for _, phrase := range markers {
		if strings.Contains(text, phrase) {
			return phrase
		}
	}
	return ""
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
