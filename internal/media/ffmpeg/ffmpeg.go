package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"chapterize/internal/metadata"
	"chapterize/internal/timecode"
)

// Splitter cuts chapter segments from the source audio with stream copy.
type Splitter struct {
	Binary string
}

// Cut trims [start, end) from source into dest. The source is only read,
// so concurrent cuts against the same file are safe.
func (s Splitter) Cut(ctx context.Context, source, dest string, start, end time.Duration) error {
	if end <= start {
		return fmt.Errorf("cut segment: invalid span %s..%s", timecode.FormatClock(start), timecode.FormatClock(end))
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", timecode.FormatClock(start),
		"-to", timecode.FormatClock(end),
		"-i", source,
		"-map", "0:a",
		"-c", "copy",
		dest,
	}
	cmd := exec.CommandContext(ctx, binary(s.Binary), args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("ffmpeg cut: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Tagger writes a chapter's metadata set into its output file.
type Tagger struct {
	Binary string
}

// Tag rewrites path's container with the given tags and optional cover
// art, using a sibling temp file and an atomic rename so a failed write
// never leaves a corrupt chapter behind.
func (t Tagger) Tag(ctx context.Context, path string, set metadata.Set, track, total int) error {
	ext := filepath.Ext(path)
	tmp := strings.TrimSuffix(path, ext) + ".tagged" + ext

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
	}
	if set.CoverArt != "" {
		args = append(args,
			"-i", set.CoverArt,
			"-map", "0:a",
			"-map", "1:0",
			"-c", "copy",
			"-id3v2_version", "3",
			"-metadata:s:v", "comment=Cover (front)",
		)
	} else {
		args = append(args,
			"-c", "copy",
			"-id3v2_version", "3",
		)
	}
	args = append(args, tagArgs(set, track, total)...)
	args = append(args, tmp)

	cmd := exec.CommandContext(ctx, binary(t.Binary), args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ffmpeg tag: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace tagged file: %w", err)
	}
	return nil
}

func tagArgs(set metadata.Set, track, total int) []string {
	var args []string
	add := func(key, value string) {
		if value != "" {
			args = append(args, "-metadata", key+"="+value)
		}
	}
	add("title", set.Title)
	add("album", set.Album)
	add("album_artist", set.Author)
	add("artist", set.Author)
	add("composer", set.Narrator)
	add("genre", strings.Join(set.Genres, ";"))
	add("date", set.Year)
	add("comment", set.Comment)
	add("description", set.Description)
	if track > 0 && total > 0 {
		args = append(args, "-metadata", fmt.Sprintf("track=%d/%d", track, total))
	}
	return args
}

// ExportMetadata reads the source file's embedded tags via the ffmetadata
// muxer. A file without tags yields an empty set, not an error.
func ExportMetadata(ctx context.Context, bin, source string) (metadata.Set, error) {
	cmd := exec.CommandContext(ctx, binary(bin), "-hide_banner", "-loglevel", "error", "-i", source, "-f", "ffmetadata", "-") //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return metadata.Set{}, fmt.Errorf("ffmpeg export metadata: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return metadata.ParseFFMetadata(string(output)), nil
}

// ExportCover extracts embedded cover art into dest. Returns dest when art
// was found, "" when the source carries none.
func ExportCover(ctx context.Context, bin, source, dest string) (string, error) {
	cmd := exec.CommandContext(ctx, binary(bin), "-y", "-hide_banner", "-loglevel", "error", "-i", source, "-an", "-c:v", "copy", dest) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(dest)
		// No video stream means no embedded art; that is not a failure.
		if strings.Contains(string(output), "does not contain any stream") ||
			strings.Contains(string(output), "Output file does not contain any stream") {
			return "", nil
		}
		return "", fmt.Errorf("ffmpeg export cover: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if info, err := os.Stat(dest); err != nil || info.Size() == 0 {
		os.Remove(dest)
		return "", nil
	}
	return dest, nil
}

func binary(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return "ffmpeg"
}
