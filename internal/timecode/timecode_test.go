package timecode

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:00", 0},
		{"00:05:46,345", 5*time.Minute + 46*time.Second + 345*time.Millisecond},
		{"00:05:46.345", 5*time.Minute + 46*time.Second + 345*time.Millisecond},
		{"01:00:00.5", time.Hour + 500*time.Millisecond},
		{"10:59:59,999", 10*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{"", "abc", "00:00", "1:2:3:4", "00:61:00", "00:00:75", "00:00:00.1234", "aa:bb:cc"}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	d := 2*time.Hour + 3*time.Minute + 4*time.Second + 56*time.Millisecond

	srt := FormatSRT(d)
	if srt != "02:03:04,056" {
		t.Errorf("FormatSRT = %q", srt)
	}
	clock := FormatClock(d)
	if clock != "02:03:04.056" {
		t.Errorf("FormatClock = %q", clock)
	}

	for _, text := range []string{srt, clock} {
		back, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if back != d {
			t.Errorf("round trip through %q = %v, want %v", text, back, d)
		}
	}
}
