package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.srt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:03,500
the story begins

2
00:05:00,000 --> 00:05:02,250
chapter one

3
00:05:01,000 --> 00:05:04,000
continued over
two lines
`
	cues, err := Load(writeTranscript(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if cues[0].Start != time.Second || cues[0].End != 3500*time.Millisecond {
		t.Errorf("cue 0 span = %v..%v", cues[0].Start, cues[0].End)
	}
	if cues[1].Text != "chapter one" {
		t.Errorf("cue 1 text = %q", cues[1].Text)
	}
	if cues[2].Text != "continued over two lines" {
		t.Errorf("multi-line text = %q", cues[2].Text)
	}
	// Overlap between cues 2 and 3 is tolerated by design.
	if cues[2].Start >= cues[1].End {
		t.Fatalf("fixture no longer overlaps; cue2 end %v, cue3 start %v", cues[1].End, cues[2].Start)
	}
}

func TestLoadCRLFAndTrailingBlock(t *testing.T) {
	content := "1\r\n00:00:01,000 --> 00:00:02,000\r\nhello\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nworld"
	cues, err := Load(writeTranscript(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[1].Text != "world" {
		t.Errorf("trailing block text = %q", cues[1].Text)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad index", "x\n00:00:01,000 --> 00:00:02,000\nhello\n"},
		{"zero index", "0\n00:00:01,000 --> 00:00:02,000\nhello\n"},
		{"bad timecode", "1\n00:00:xx,000 --> 00:00:02,000\nhello\n"},
		{"missing arrow", "1\n00:00:01,000 00:00:02,000\nhello\n"},
		{"truncated block", "1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTranscript(t, tt.content))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("got %v, want ParseError", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
