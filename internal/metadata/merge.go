package metadata

import (
	"fmt"

	"chapterize/internal/chapter"
)

// ConflictError reports a scalar disagreement between embedded and
// CLI-supplied values under the strict merge policy.
type ConflictError struct {
	Field    string
	Embedded string
	Supplied string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("metadata conflict on %s: embedded %q, supplied %q", e.Field, e.Embedded, e.Supplied)
}

// Merge produces the tag set for one resolved boundary. Precedence, lowest
// to highest: embedded file tags, derived defaults, CLI-supplied values.
// Scalars are overridden on conflict (or rejected when strict); genres are
// unioned. Album carries the book title across all chapters; a chapter
// with no per-chapter title from either source takes the boundary's label.
// Merge is pure and idempotent: identical inputs yield identical sets.
func Merge(embedded, supplied Set, b chapter.Boundary, strict bool) (Set, error) {
	merged := Set{Genres: unionGenres(embedded.Genres, supplied.Genres)}

	scalars := []struct {
		field    string
		embedded string
		supplied string
		dest     *string
	}{
		{"author", embedded.Author, supplied.Author, &merged.Author},
		{"album", embedded.Album, supplied.Album, &merged.Album},
		{"title", embedded.Title, supplied.Title, &merged.Title},
		{"narrator", embedded.Narrator, supplied.Narrator, &merged.Narrator},
		{"year", embedded.Year, supplied.Year, &merged.Year},
		{"comment", embedded.Comment, supplied.Comment, &merged.Comment},
		{"description", embedded.Description, supplied.Description, &merged.Description},
	}
	for _, s := range scalars {
		switch {
		case s.supplied == "":
			*s.dest = s.embedded
		case s.embedded == "" || s.embedded == s.supplied:
			*s.dest = s.supplied
		case strict:
			return Set{}, &ConflictError{Field: s.field, Embedded: s.embedded, Supplied: s.supplied}
		default:
			*s.dest = s.supplied
		}
	}

	if merged.Title == "" {
		merged.Title = b.Label
	}
	if merged.Title == "" {
		merged.Title = fmt.Sprintf("Chapter %02d", b.Ordinal)
	}

	// An explicitly supplied cover path beats embedded art.
	merged.CoverArt = supplied.CoverArt
	if merged.CoverArt == "" {
		merged.CoverArt = embedded.CoverArt
	}

	return merged, nil
}
