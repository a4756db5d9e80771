package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts a sexagesimal timecode into a duration. Both the SRT
// millisecond separator ("00:05:46,345") and the clock form used by cue
// sheets and ffmpeg ("00:05:46.345") are accepted; milliseconds are
// optional.
func Parse(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timecode")
	}
	value = strings.ReplaceAll(value, ",", ".")

	base := value
	millis := 0
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		base = value[:idx]
		frac := value[idx+1:]
		if frac == "" || len(frac) > 3 {
			return 0, fmt.Errorf("invalid timecode %q", value)
		}
		parsed, err := strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid timecode %q", value)
		}
		// Scale fractional digits to milliseconds.
		for i := len(frac); i < 3; i++ {
			parsed *= 10
		}
		millis = parsed
	}

	hms := strings.Split(base, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timecode %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid timecode %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("timecode %q out of range", value)
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

// FormatSRT renders a duration as an SRT timestamp ("00:05:46,345").
func FormatSRT(d time.Duration) string {
	h, m, s, ms := split(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatClock renders a duration in the clock form consumed by cue sheets
// and ffmpeg ("00:05:46.345").
func FormatClock(d time.Duration) string {
	h, m, s, ms := split(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func split(d time.Duration) (h, m, s, ms int) {
	if d < 0 {
		d = 0
	}
	h = int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m = int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s = int(d / time.Second)
	d -= time.Duration(s) * time.Second
	ms = int(d / time.Millisecond)
	return h, m, s, ms
}
