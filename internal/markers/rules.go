package markers

import (
	"fmt"
	"strings"
	"time"

	"chapterize/internal/language"
)

// DefaultMergeWindow coalesces candidate matches whose start times fall
// within this span; consecutive transcript cues often cover one spoken
// marker.
const DefaultMergeWindow = 3 * time.Second

// RuleSet is the declarative matching configuration for one run: marker
// phrases that open a chapter and phrases that suppress a match. Loaded
// once at startup and immutable afterwards.
type RuleSet struct {
	Markers     []string
	Excluded    []string
	MergeWindow time.Duration
}

// RulesFor builds the rule set for a language, folding in any extra
// phrases from configuration. Both lists are lowercased for matching.
func RulesFor(code string, extraMarkers, extraExcluded []string, mergeWindow time.Duration) (RuleSet, error) {
	features, ok := language.FeaturesFor(code)
	if !ok && len(extraMarkers) == 0 {
		return RuleSet{}, fmt.Errorf("no chapter marker vocabulary for language %q", code)
	}
	if mergeWindow <= 0 {
		mergeWindow = DefaultMergeWindow
	}
	rules := RuleSet{
		Markers:     lowered(append(features.Markers, extraMarkers...)),
		Excluded:    lowered(append(features.Excluded, extraExcluded...)),
		MergeWindow: mergeWindow,
	}
	return rules, nil
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
