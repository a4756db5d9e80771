package language

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry struct {
	code     string   // speech model language code (e.g. "en-us")
	display  string   // Human-readable name
	aliases  []string // Additional accepted names
	markers  []string // Phrases that open a chapter when spoken
	excluded []string // Phrases that must never trigger a boundary
}

var languages = []entry{
	{
		code:    "en-us",
		display: "English (US)",
		aliases: []string{"English", "English US"},
		markers: []string{"prologue", "chapter", "epilogue"},
		excluded: []string{
			"chapter and verse", "chapters", "this chapter", "that chapter",
			"chapter of", "in chapter", "and chapter", "chapter heading",
			"chapter head", "chapter house", "chapter book", "a chapter",
			"chapter out", "chapter in", "particular chapter", "spicy chapter",
			"before chapter", "main chapter", "final chapter", "concluding chapter",
			"glorious chapter", "next chapter", "chapter asking", "matthew chapter",
			"forgotten chapter", "last chapter", "chapter room", "the chapter",
			"prologue to", "from prologue", "epilogue to", "from epilogue",
		},
	},
	{
		code:    "en-in",
		display: "English (India)",
		aliases: []string{"English India"},
	},
	{
		code:    "de",
		display: "German",
		markers: []string{"prolog", "kapitel", "epilog"},
		excluded: []string{
			"der kapitelsaal", "das schlusskapitel", "das hauptkapitel",
			"dieses kapitel", "die kapitelüberschrift", "ein kapitel",
		},
	},
	{code: "cn", display: "Chinese"},
	{code: "ru", display: "Russian"},
	{code: "fr", display: "French"},
	{code: "es", display: "Spanish"},
	{code: "pt", display: "Portuguese"},
	{code: "el", display: "Greek"},
	{code: "tr", display: "Turkish"},
	{code: "vn", display: "Vietnamese"},
	{code: "it", display: "Italian"},
	{code: "nl", display: "Dutch"},
	{code: "ca", display: "Catalan"},
	{code: "ar", display: "Arabic"},
	{code: "fa", display: "Farsi"},
	{code: "tl-ph", display: "Filipino"},
	{code: "kz", display: "Kazakh"},
	{code: "ja", display: "Japanese"},
	{code: "uk", display: "Ukrainian"},
	{code: "eo", display: "Esperanto"},
	{code: "hi", display: "Hindi"},
	{code: "cs", display: "Czech"},
	{code: "pl", display: "Polish"},
}

// Index maps built at init time.
var (
	byCode map[string]*entry
	byName map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byName = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		byName[strings.ToLower(e.display)] = e
		for _, alias := range e.aliases {
			byName[strings.ToLower(alias)] = e
		}
	}
}

var titleCaser = cases.Title(language.Und)

func lookup(value string) *entry {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if e, ok := byCode[strings.ToLower(value)]; ok {
		return e
	}
	// Accept names in any casing ("english", "ENGLISH (us)").
	if e, ok := byName[strings.ToLower(titleCaser.String(value))]; ok {
		return e
	}
	if e, ok := byName[strings.ToLower(value)]; ok {
		return e
	}
	return nil
}

// Resolve maps a language name or code to its canonical model code.
// Returns false when the language is unknown.
func Resolve(value string) (string, bool) {
	e := lookup(value)
	if e == nil {
		return "", false
	}
	return e.code, true
}

// DisplayName returns the human-readable name for a language code, or the
// code itself when unknown.
func DisplayName(code string) string {
	if e := lookup(code); e != nil {
		return e.display
	}
	return code
}

// Features holds the spoken-marker vocabulary for one language.
type Features struct {
	Markers  []string
	Excluded []string
}

// FeaturesFor returns the chapter-marker phrases and the ignore list for a
// language code. Languages without a curated vocabulary report ok=false and
// callers fall back to cue sheets or manual boundaries.
func FeaturesFor(code string) (Features, bool) {
	e := lookup(code)
	if e == nil || len(e.markers) == 0 {
		return Features{}, false
	}
	return Features{
		Markers:  append([]string(nil), e.markers...),
		Excluded: append([]string(nil), e.excluded...),
	}, true
}

// Supported lists all known language codes with display names, sorted by
// display name for presentation.
func Supported() [][2]string {
	out := make([][2]string, 0, len(languages))
	for i := range languages {
		out = append(out, [2]string{languages[i].code, languages[i].display})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][1] < out[j][1] })
	return out
}
