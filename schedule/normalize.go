package schedule

import (
	"regexp"
	"strings"
)

var canonicalTime = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// NormalizeTime turns loosely written times such as "10:0" or " 9:5 " into
// "HH:MM". The second return is false when the result is not a valid time of day.
func NormalizeTime(s string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, s)

	parts := strings.Split(cleaned, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	hour := padLeft(parts[0], 2)
	minute := padLeft(parts[1], 2)
	if len(minute) > 2 {
		minute = minute[:2]
	}

	normalized := hour + ":" + minute
	if !canonicalTime.MatchString(normalized) {
		return "", false
	}
	return normalized, true
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
