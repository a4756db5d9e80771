package metadata

import (
	"strings"
)

// Set is the resolved tag bundle for one chapter's output file. Album is
// the book-level title shared by every chapter; Title is the per-chapter
// title and defaults to the boundary label at merge time. CoverArt is a
// filesystem path; empty means the chapter carries no art.
type Set struct {
	Author      string
	Album       string
	Title       string
	Narrator    string
	Genres      []string
	Year        string
	Comment     string
	Description string
	CoverArt    string
}

// SplitGenres parses the semicolon-separated genre surface used on the
// command line and in embedded tags.
func SplitGenres(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func unionGenres(embedded, cli []string) []string {
	seen := make(map[string]bool, len(embedded)+len(cli))
	out := make([]string, 0, len(embedded)+len(cli))
	for _, list := range [][]string{embedded, cli} {
		for _, g := range list {
			key := strings.ToLower(strings.TrimSpace(g))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(g))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
