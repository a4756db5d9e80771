package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"chapterize/internal/chapter"
	"chapterize/internal/chapterize"
	"chapterize/internal/timecode"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printChapterResult(w io.Writer, res chapterize.ChapterResult, colorize bool) {
	label := res.Boundary.Label
	if res.Err == nil {
		status := "done"
		if colorize {
			status = ansiGreen + status + ansiReset
		}
		fmt.Fprintf(w, "  %2d  %-30s %s\n", res.Boundary.Ordinal, label, status)
		return
	}
	status := "FAILED"
	if colorize {
		status = ansiRed + status + ansiReset
	}
	fmt.Fprintf(w, "  %2d  %-30s %s  %v\n", res.Boundary.Ordinal, label, status, res.Err)
}

// renderReport summarizes a finished run as a table, one row per chapter
// in ordinal order, followed by the failure reasons when any exist.
func renderReport(report *chapterize.Report) string {
	rows := make([][]string, 0, len(report.Chapters))
	for _, res := range report.Chapters {
		status := "ok"
		if res.Err != nil {
			status = "failed"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", res.Boundary.Ordinal),
			res.Boundary.Label,
			formatSpan(res.Boundary.Start, res.Boundary.End),
			filepath.Base(res.OutputPath),
			status,
		})
	}
	out := renderTable(
		[]string{"#", "Chapter", "Span", "File", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)

	if failed := report.Failed(); len(failed) > 0 {
		out += "\n"
		for _, res := range failed {
			out += fmt.Sprintf("\nchapter %d: %v", res.Boundary.Ordinal, res.Err)
		}
	}
	return out
}

// renderBoundaries lists resolved boundaries the way the cue command
// previews them.
func renderBoundaries(boundaries []chapter.Boundary) string {
	rows := make([][]string, 0, len(boundaries))
	for _, b := range boundaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.Ordinal),
			b.Label,
			timecode.FormatClock(b.Start),
			timecode.FormatClock(b.End),
			b.Origin.String(),
		})
	}
	return renderTable(
		[]string{"#", "Chapter", "Start", "End", "Origin"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func formatSpan(start, end time.Duration) string {
	return timecode.FormatClock(start) + " - " + timecode.FormatClock(end)
}
