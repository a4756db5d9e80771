package cuesheet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chapterize/internal/chapter"
	"chapterize/internal/timecode"
)

// ParseError describes a malformed cue sheet.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse cue sheet %s: line %d: %s", e.Path, e.Line, e.Msg)
}

// Write serializes boundaries into the editable cue-sheet format:
//
//	FILE "book.mp3" MP3
//	TRACK 1 AUDIO
//	  TITLE "Chapter 01"
//	  START 00:00:00.000
//	  END   00:05:45.000
//
// The last track carries no END line; the file's end is implied. END
// values are display hints for the human editor. Parse ignores them and
// the resolver recomputes contiguous ends.
func Write(w io.Writer, audioName string, boundaries []chapter.Boundary) error {
	if len(boundaries) == 0 {
		return fmt.Errorf("write cue sheet: no boundaries")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "FILE %q MP3\n", audioName)
	for i, b := range boundaries {
		fmt.Fprintf(bw, "TRACK %d AUDIO\n", i+1)
		fmt.Fprintf(bw, "  TITLE %q\n", b.Label)
		fmt.Fprintf(bw, "  START %s\n", timecode.FormatClock(b.Start))
		if i+1 < len(boundaries) {
			// Display end: one second shy of the next start, matching
			// the convention readers expect from track listings.
			end := b.End
			if !b.Resolved() {
				end = boundaries[i+1].Start - time.Second
			}
			if end < b.Start {
				end = b.Start
			}
			fmt.Fprintf(bw, "  END   %s\n", timecode.FormatClock(end))
		}
	}
	return bw.Flush()
}

// WriteFile creates a cue sheet at path. An existing file is never
// overwritten; a partially written file is removed on failure so a later
// parse cannot see a torn sheet.
func WriteFile(path, audioName string, boundaries []chapter.Boundary) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create cue sheet: %w", err)
	}
	if err := Write(file, audioName, boundaries); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close cue sheet: %w", err)
	}
	return nil
}

// Parse reads a cue sheet back into an unresolved boundary list with
// origin cue-file. Start times must be strictly increasing; ordinals are
// assigned in track order.
func Parse(path string) ([]chapter.Boundary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue sheet: %w", err)
	}
	defer file.Close()

	var boundaries []chapter.Boundary
	var current *chapter.Boundary
	haveStart := false

	flush := func(line int) error {
		if current == nil {
			return nil
		}
		if !haveStart {
			return &ParseError{Path: path, Line: line, Msg: fmt.Sprintf("track %d has no START", current.Ordinal)}
		}
		if current.Label == "" {
			current.Label = fmt.Sprintf("Chapter %02d", current.Ordinal)
		}
		if n := len(boundaries); n > 0 && current.Start <= boundaries[n-1].Start {
			return &ParseError{
				Path: path,
				Line: line,
				Msg: fmt.Sprintf("track %d start %s is not after track %d start %s",
					current.Ordinal, timecode.FormatClock(current.Start),
					boundaries[n-1].Ordinal, timecode.FormatClock(boundaries[n-1].Start)),
			}
		}
		boundaries = append(boundaries, *current)
		current = nil
		haveStart = false
		return nil
	}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		switch {
		case line == "" || strings.HasPrefix(line, "FILE "):
			continue
		case strings.HasPrefix(line, "TRACK "):
			if err := flush(lineNo); err != nil {
				return nil, err
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("malformed track line %q", line)}
			}
			if _, err := strconv.Atoi(fields[1]); err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("invalid track number %q", fields[1])}
			}
			current = &chapter.Boundary{Ordinal: len(boundaries) + 1, Origin: chapter.OriginCueFile}
		case strings.HasPrefix(line, "TITLE"):
			if current == nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: "TITLE outside of a track"}
			}
			current.Label = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "TITLE")), `"`)
		case strings.HasPrefix(line, "START"):
			if current == nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: "START outside of a track"}
			}
			start, err := timecode.Parse(strings.TrimPrefix(line, "START"))
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			current.Start = start
			haveStart = true
		case strings.HasPrefix(line, "END"):
			// Display hint only; ends are recomputed at resolution.
			continue
		default:
			return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("unrecognized line %q", line)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	if err := flush(lineNo); err != nil {
		return nil, err
	}
	if len(boundaries) == 0 {
		return nil, &ParseError{Path: path, Line: lineNo, Msg: "cue sheet contains no tracks"}
	}
	return boundaries, nil
}

// DefaultPath places the cue sheet next to the audio file, swapping the
// extension for .cue.
func DefaultPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".cue"
}
