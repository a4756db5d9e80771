package markers

import (
	"testing"
	"time"

	"chapterize/internal/chapter"
	"chapterize/internal/transcript"
)

func englishRules(t *testing.T) RuleSet {
	t.Helper()
	rules, err := RulesFor("en-us", nil, nil, 0)
	if err != nil {
		t.Fatalf("RulesFor: %v", err)
	}
	return rules
}

func cue(start time.Duration, text string) transcript.Cue {
	return transcript.Cue{Start: start, End: start + 2*time.Second, Text: text}
}

func TestDetectSingleChapter(t *testing.T) {
	cues := []transcript.Cue{
		cue(time.Minute, "it was a dark and stormy night"),
		cue(5*time.Minute, "Chapter 1"),
		cue(6*time.Minute, "the rain fell in sheets"),
	}
	boundaries := Detect(cues, englishRules(t))
	if len(boundaries) != 1 {
		t.Fatalf("got %d boundaries, want 1", len(boundaries))
	}
	b := boundaries[0]
	if b.Label != "Chapter 01" {
		t.Errorf("label = %q", b.Label)
	}
	if b.Start != 5*time.Minute {
		t.Errorf("start = %v, want 5m", b.Start)
	}
	if b.Origin != chapter.OriginDetected {
		t.Errorf("origin = %v", b.Origin)
	}
	if b.Resolved() {
		t.Error("detector output must leave end unresolved")
	}
}

func TestDetectIgnoreList(t *testing.T) {
	cues := []transcript.Cue{
		cue(5*time.Minute, "they met in the chapter house at dawn"),
	}
	if boundaries := Detect(cues, englishRules(t)); len(boundaries) != 0 {
		t.Fatalf("ignore-list phrase produced %d boundaries", len(boundaries))
	}
}

func TestDetectIgnoreChecksWholeCue(t *testing.T) {
	// The marker and the suppressing phrase are different tokens in the
	// same cue; suppression must still apply.
	cues := []transcript.Cue{
		cue(5*time.Minute, "chapter next chapter discussion"),
	}
	if boundaries := Detect(cues, englishRules(t)); len(boundaries) != 0 {
		t.Fatalf("got %d boundaries, want 0", len(boundaries))
	}
}

func TestDetectMergeWindow(t *testing.T) {
	cues := []transcript.Cue{
		cue(5*time.Minute, "chapter"),
		cue(5*time.Minute+1500*time.Millisecond, "chapter one begins"),
		cue(12*time.Minute, "chapter two"),
	}
	boundaries := Detect(cues, englishRules(t))
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2", len(boundaries))
	}
	if boundaries[0].Start != 5*time.Minute {
		t.Errorf("coalesced start = %v, want first cue start", boundaries[0].Start)
	}
	if boundaries[1].Label != "Chapter 02" {
		t.Errorf("second label = %q", boundaries[1].Label)
	}
}

func TestDetectPrologueAndNumbering(t *testing.T) {
	cues := []transcript.Cue{
		cue(10*time.Second, "prologue"),
		cue(8*time.Minute, "chapter"),
		cue(20*time.Minute, "chapter"),
		cue(40*time.Minute, "epilogue"),
	}
	boundaries := Detect(cues, englishRules(t))
	if len(boundaries) != 4 {
		t.Fatalf("got %d boundaries, want 4", len(boundaries))
	}
	wantLabels := []string{"Prologue", "Chapter 01", "Chapter 02", "Epilogue"}
	for i, want := range wantLabels {
		if boundaries[i].Label != want {
			t.Errorf("label %d = %q, want %q", i, boundaries[i].Label, want)
		}
		if boundaries[i].Ordinal != i+1 {
			t.Errorf("ordinal %d = %d", i, boundaries[i].Ordinal)
		}
	}
}

func TestDetectEmptyResult(t *testing.T) {
	cues := []transcript.Cue{
		cue(time.Minute, "no markers anywhere"),
	}
	if boundaries := Detect(cues, englishRules(t)); boundaries != nil {
		t.Fatalf("got %v, want nil", boundaries)
	}
}

func TestDetectToleratesOverlappingCues(t *testing.T) {
	cues := []transcript.Cue{
		cue(5*time.Minute, "plain narration"),
		{Start: 4 * time.Minute, End: 10 * time.Minute, Text: "chapter one"},
	}
	boundaries := Detect(cues, englishRules(t))
	if len(boundaries) != 1 {
		t.Fatalf("got %d boundaries, want 1", len(boundaries))
	}
}

func TestRulesForUnknownLanguage(t *testing.T) {
	if _, err := RulesFor("ja", nil, nil, 0); err == nil {
		t.Fatal("expected error for language without vocabulary")
	}
	rules, err := RulesFor("ja", []string{"Dai"}, nil, 0)
	if err != nil {
		t.Fatalf("extra markers should satisfy RulesFor: %v", err)
	}
	if len(rules.Markers) != 1 || rules.Markers[0] != "dai" {
		t.Errorf("markers = %v", rules.Markers)
	}
	if rules.MergeWindow != DefaultMergeWindow {
		t.Errorf("merge window = %v", rules.MergeWindow)
	}
}
