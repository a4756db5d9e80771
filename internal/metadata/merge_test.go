package metadata

import (
	"errors"
	"reflect"
	"testing"

	"chapterize/internal/chapter"
)

func TestMergePrecedence(t *testing.T) {
	embedded := Set{Author: "A", Genres: []string{"Fantasy"}}
	supplied := Set{Author: "B", Genres: []string{"Adventure"}}

	merged, err := Merge(embedded, supplied, chapter.Boundary{Ordinal: 1, Label: "Chapter 01"}, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Author != "B" {
		t.Errorf("author = %q, want B", merged.Author)
	}
	if !reflect.DeepEqual(merged.Genres, []string{"Fantasy", "Adventure"}) {
		t.Errorf("genres = %v, want union", merged.Genres)
	}
}

func TestMergeDerivedTitle(t *testing.T) {
	merged, err := Merge(Set{}, Set{}, chapter.Boundary{Ordinal: 3, Label: "Chapter 03"}, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Title != "Chapter 03" {
		t.Errorf("title = %q", merged.Title)
	}

	merged, err = Merge(Set{Title: "The Long Road"}, Set{}, chapter.Boundary{Ordinal: 3, Label: "Chapter 03"}, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Title != "The Long Road" {
		t.Errorf("embedded title lost: %q", merged.Title)
	}
}

func TestMergeBookTitleStaysAlbum(t *testing.T) {
	embedded := ParseFFMetadata("title=My Great Book\nartist=Jane Author\n")

	merged, err := Merge(embedded, Set{}, chapter.Boundary{Ordinal: 2, Label: "Chapter 02"}, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Title != "Chapter 02" {
		t.Errorf("title = %q, want the chapter label", merged.Title)
	}
	if merged.Album != "My Great Book" {
		t.Errorf("album = %q, want the book title", merged.Album)
	}
}

func TestMergeIdempotent(t *testing.T) {
	embedded := Set{Author: "A", Title: "T", Genres: []string{"Fantasy", "Epic"}, Year: "1999"}
	supplied := Set{Narrator: "N", Genres: []string{"fantasy", "Adventure"}, Comment: "c"}
	b := chapter.Boundary{Ordinal: 2, Label: "Chapter 02"}

	first, err := Merge(embedded, supplied, b, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	second, err := Merge(embedded, supplied, b, false)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge not idempotent: %+v vs %+v", first, second)
	}
	// Case-insensitive genre dedupe keeps the embedded spelling.
	if !reflect.DeepEqual(first.Genres, []string{"Fantasy", "Epic", "Adventure"}) {
		t.Errorf("genres = %v", first.Genres)
	}
}

func TestMergeStrictConflict(t *testing.T) {
	_, err := Merge(Set{Author: "A"}, Set{Author: "B"}, chapter.Boundary{Ordinal: 1, Label: "x"}, true)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %v, want ConflictError", err)
	}
	if conflict.Field != "author" {
		t.Errorf("conflict field = %q", conflict.Field)
	}

	// Agreeing values are not a conflict under strict.
	if _, err := Merge(Set{Author: "A"}, Set{Author: "A"}, chapter.Boundary{Ordinal: 1, Label: "x"}, true); err != nil {
		t.Errorf("strict merge of equal values failed: %v", err)
	}
}

func TestMergeCoverArt(t *testing.T) {
	merged, _ := Merge(Set{CoverArt: "embedded.jpg"}, Set{CoverArt: "supplied.jpg"}, chapter.Boundary{Ordinal: 1, Label: "x"}, false)
	if merged.CoverArt != "supplied.jpg" {
		t.Errorf("cover = %q", merged.CoverArt)
	}
	merged, _ = Merge(Set{CoverArt: "embedded.jpg"}, Set{}, chapter.Boundary{Ordinal: 1, Label: "x"}, false)
	if merged.CoverArt != "embedded.jpg" {
		t.Errorf("cover = %q", merged.CoverArt)
	}
	merged, _ = Merge(Set{}, Set{}, chapter.Boundary{Ordinal: 1, Label: "x"}, false)
	if merged.CoverArt != "" {
		t.Errorf("cover = %q, want none", merged.CoverArt)
	}
}

func TestSplitGenres(t *testing.T) {
	if got := SplitGenres("Fantasy; Adventure ;;Epic"); !reflect.DeepEqual(got, []string{"Fantasy", "Adventure", "Epic"}) {
		t.Errorf("SplitGenres = %v", got)
	}
	if got := SplitGenres("  "); got != nil {
		t.Errorf("SplitGenres(blank) = %v", got)
	}
}

func TestParseFFMetadata(t *testing.T) {
	content := `;FFMETADATA1
album_artist=Jane Author
artist=Jane Author
album=The Book
composer=Sam Narrator
genre=Fantasy;Epic
date=2001
comment=remastered
encoder=Lavf61.1.100
`
	set := ParseFFMetadata(content)
	if set.Author != "Jane Author" {
		t.Errorf("author = %q", set.Author)
	}
	if set.Album != "The Book" {
		t.Errorf("album = %q", set.Album)
	}
	if set.Title != "" {
		t.Errorf("title = %q, want empty until merge", set.Title)
	}
	if set.Narrator != "Sam Narrator" {
		t.Errorf("narrator = %q", set.Narrator)
	}
	if !reflect.DeepEqual(set.Genres, []string{"Fantasy", "Epic"}) {
		t.Errorf("genres = %v", set.Genres)
	}
	if set.Year != "2001" {
		t.Errorf("year = %q", set.Year)
	}
	if set.Comment != "remastered" {
		t.Errorf("comment = %q", set.Comment)
	}
}

func TestParseFFMetadataFallbacksAndEscapes(t *testing.T) {
	content := "artist=Solo Artist\ntitle=Track Title\ncomment=a\\;b\\=c\n"
	set := ParseFFMetadata(content)
	if set.Author != "Solo Artist" {
		t.Errorf("artist fallback: author = %q", set.Author)
	}
	if set.Album != "Track Title" {
		t.Errorf("title fallback: album = %q", set.Album)
	}
	if set.Comment != "a;b=c" {
		t.Errorf("escaped comment = %q", set.Comment)
	}
}
