// Package format renders tasks and time spans as human-readable chat text.
package format

import (
	"fmt"
	"time"
)

// Duration describes a time span in coarse human terms: the two largest
// non-zero units, truncated. The sign is ignored, so callers can feed it
// an overrun directly.
//
//	2*time.Hour + 5*time.Minute -> "2 hr 5 min"
//	90*time.Second              -> "1 min 30 secs"
//	45*time.Second              -> "45 secs"
func Duration(span time.Duration) string {
	seconds := int64(span.Seconds())
	if seconds < 0 {
		seconds = -seconds
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%d min %d secs", minutes, seconds)
	}
	return fmt.Sprintf("%d secs", seconds)
}
