package transcript

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chapterize/internal/timecode"
)

// Cue is a single timed text span emitted by the speech-to-text engine.
// Cues are immutable once loaded and ordered as they appear in the file;
// overlapping or non-monotonic spans are tolerated.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// ParseError describes a malformed transcript file.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse transcript %s: line %d: %s", e.Path, e.Line, e.Msg)
}

// Load reads an SRT-style transcript into an ordered cue sequence.
func Load(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	var cues []Cue
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	var block []string
	blockStart := 0
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(path, blockStart, block)
		if err != nil {
			return err
		}
		cues = append(cues, cue)
		block = block[:0]
		return nil
	}

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(block) == 0 {
			blockStart = line
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

func parseBlock(path string, firstLine int, lines []string) (Cue, error) {
	if len(lines) < 2 {
		return Cue{}, &ParseError{Path: path, Line: firstLine, Msg: "incomplete cue block"}
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || index < 1 {
		return Cue{}, &ParseError{Path: path, Line: firstLine, Msg: fmt.Sprintf("invalid cue index %q", lines[0])}
	}

	parts := strings.Split(lines[1], "-->")
	if len(parts) != 2 {
		return Cue{}, &ParseError{Path: path, Line: firstLine + 1, Msg: fmt.Sprintf("invalid timecode line %q", lines[1])}
	}
	start, err := timecode.Parse(parts[0])
	if err != nil {
		return Cue{}, &ParseError{Path: path, Line: firstLine + 1, Msg: err.Error()}
	}
	end, err := timecode.Parse(parts[1])
	if err != nil {
		return Cue{}, &ParseError{Path: path, Line: firstLine + 1, Msg: err.Error()}
	}

	return Cue{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], " "),
	}, nil
}
