package display

import (
	"fmt"
)

// HumanReadableByteCount formats a byte count with one decimal place. With si
// the unit is 1000 and prefixes are kMGTPE ("1.0 kB"); otherwise the unit is
// 1024 and prefixes carry an "i" ("1.0 KiB"). Counts below one unit are
// printed as "<n> B".
func HumanReadableByteCount(bytes int64, si bool) string {
	unit := int64(1024)
	prefixes := "KMGTPE"
	if si {
		unit = 1000
		prefixes = "kMGTPE"
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 1
	for n := bytes / unit; n >= unit && exp < len(prefixes); n /= unit {
		div *= unit
		exp++
	}
	pre := prefixes[exp-1 : exp]
	if !si {
		pre += "i"
	}
	return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), pre)
}

// ElapsedHMS formats a duration in milliseconds as HH:MM:SS. Hours are not
// wrapped at 24.
func ElapsedHMS(millis int64) string {
	s := millis / 1000
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// FormatDelta prefixes a binary size with + or - (e.g. "- 1.2 MiB").
func FormatDelta(bytes int64) string {
	switch {
	case bytes > 0:
		return "+ " + HumanReadableByteCount(bytes, false)
	case bytes < 0:
		return "- " + HumanReadableByteCount(-bytes, false)
	}
	return HumanReadableByteCount(0, false)
}
