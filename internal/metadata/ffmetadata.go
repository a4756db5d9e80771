package metadata

import (
	"strings"
)

// ParseFFMetadata decodes the key=value body produced by ffmpeg's
// ffmetadata muxer into a Set. Unknown keys are ignored; the artist tag
// fills Author only when album_artist is absent, and the composer tag is
// the conventional home of the narrator. A whole-book source file's title
// and album tags both name the book, so they land in Album; Title stays
// empty and the merge derives it per chapter.
func ParseFFMetadata(content string) Set {
	var set Set
	artist := ""
	title := ""

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(unescapeFFMetadata(value))
		if value == "" {
			continue
		}
		switch key {
		case "album_artist":
			set.Author = value
		case "artist":
			artist = value
		case "title":
			title = value
		case "album":
			set.Album = value
		case "composer":
			set.Narrator = value
		case "genre":
			set.Genres = unionGenres(set.Genres, SplitGenres(value))
		case "date", "year":
			set.Year = value
		case "comment":
			set.Comment = value
		case "description":
			set.Description = value
		}
	}

	if set.Author == "" {
		set.Author = artist
	}
	if set.Album == "" {
		set.Album = title
	}
	return set
}

// ffmetadata escapes '=', ';', '#', and backslash with a backslash.
func unescapeFFMetadata(value string) string {
	if !strings.ContainsRune(value, '\\') {
		return value
	}
	var sb strings.Builder
	sb.Grow(len(value))
	escaped := false
	for _, r := range value {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
