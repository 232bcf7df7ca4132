package util //nolint:revive // package name util hosts shared formatting helpers used across run reports

import (
	"fmt"
	"strings"
	"time"
)

// FormatExecutionTime formats a duration as hours, minutes, and seconds for
// run reports, e.g. "1 hour 3 minutes 12.50 seconds".
func FormatExecutionTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalSeconds := d.Seconds()
	hours := int(totalSeconds) / 3600
	minutes := (int(totalSeconds) % 3600) / 60
	seconds := totalSeconds - float64(hours*3600+minutes*60)

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural("hour", hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural("minute", minutes)))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%.2f seconds", seconds))
	}
	return strings.Join(parts, " ")
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
