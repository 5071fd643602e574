package util

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "..."

// FormatCount returns a human-readable count string.
func FormatCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1_000_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	if n < 1_000_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
}

// Ratio returns part/total clamped to [0, 1].
func Ratio(part, total int) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 1
	}
	return float64(part) / float64(total)
}

// FormatElapsed renders a duration with tenth-of-a-second precision.
func FormatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// TruncateString cuts s to at most width display cells, ending with "...".
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, ellipsis)
}

// TruncatePath cuts s to at most width display cells by dropping text from
// the left, so the file name at the end stays visible.
func TruncatePath(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w <= width {
		return s
	}
	if width <= len(ellipsis) {
		return ansi.TruncateLeft(s, w-width, "")
	}
	return ansi.TruncateLeft(s, w-width+len(ellipsis), ellipsis)
}
