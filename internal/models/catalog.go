package models

import (
	"fmt"
	"strings"
)

// BaseURL is the model archive host.
const BaseURL = "https://alphacephei.com/vosk/models"

var small = []string{
	"vosk-model-small-en-us-0.15",
	"vosk-model-small-en-in-0.4",
	"vosk-model-small-cn-0.22",
	"vosk-model-small-ru-0.22",
	"vosk-model-small-fr-0.22",
	"vosk-model-small-de-0.15",
	"vosk-model-small-es-0.42",
	"vosk-model-small-pt-0.3",
	"vosk-model-small-tr-0.3",
	"vosk-model-small-vn-0.3",
	"vosk-model-small-it-0.22",
	"vosk-model-small-nl-0.22",
	"vosk-model-small-ca-0.4",
	"vosk-model-small-fa-0.5",
	"vosk-model-small-uk-v3-small",
	"vosk-model-small-kz-0.15",
	"vosk-model-small-ja-0.22",
	"vosk-model-small-eo-0.42",
	"vosk-model-small-hi-0.22",
	"vosk-model-small-cs-0.4-rhasspy",
	"vosk-model-small-pl-0.22",
}

var large = []string{
	"vosk-model-en-us-0.22",
	"vosk-model-en-in-0.5",
	"vosk-model-cn-0.22",
	"vosk-model-ru-0.22",
	"vosk-model-fr-0.22",
	"vosk-model-de-0.21",
	"vosk-model-es-0.42",
	"vosk-model-pt-fb-v0.1.1-20220516_2113",
	"vosk-model-el-gr-0.7",
	"vosk-model-it-0.22",
	"vosk-model-ar-0.22-linto-1.1.0",
	"vosk-model-fa-0.5",
	"vosk-model-tl-ph-generic-0.6",
	"vosk-model-uk-v3",
	"vosk-model-kz-0.15",
	"vosk-model-ja-0.22",
	"vosk-model-hi-0.22",
}

// SizeError reports that no downloadable model exists for the requested
// size, possibly suggesting the other size.
type SizeError struct {
	Language  string
	Size      string
	Alternate string // size that does exist, if any
}

func (e *SizeError) Error() string {
	if e.Alternate != "" {
		return fmt.Sprintf("no %s model for %q, but a %s model exists; re-run with size %s or download one manually from %s",
			e.Size, e.Language, e.Alternate, e.Alternate, BaseURL)
	}
	return fmt.Sprintf("no downloadable %s model for %q; browse %s for manual options", e.Size, e.Language, BaseURL)
}

// Resolve maps a language code and size to a downloadable model name.
func Resolve(languageCode, size string) (string, error) {
	primary, alternate := small, large
	alternateSize := "large"
	if size == "large" {
		primary, alternate = large, small
		alternateSize = "small"
	}
	if name := find(primary, languageCode); name != "" {
		return name, nil
	}
	if name := find(alternate, languageCode); name != "" {
		return "", &SizeError{Language: languageCode, Size: size, Alternate: alternateSize}
	}
	return "", &SizeError{Language: languageCode, Size: size}
}

// ArchiveURL builds the download URL for a catalog model name.
func ArchiveURL(name string) string {
	return BaseURL + "/" + name + ".zip"
}

func find(catalog []string, languageCode string) string {
	token := "-" + languageCode + "-"
	for _, name := range catalog {
		if strings.Contains(name, token) || strings.HasSuffix(name, "-"+languageCode) {
			return name
		}
	}
	return ""
}
