package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to width visible cells, ending with an ellipsis when
// it had to cut. Escape sequences are kept intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// PadRight truncates or pads s to exactly width visible cells.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// ShortID returns the first eight characters of an ID.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// HumanTimestampFrom renders how long ago t was, relative to now.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case t.IsZero():
		return "never"
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Local().Format("Jan 2 15:04")
	}
}

// StaleBanner is shown above data served from the offline cache.
func StaleBanner(fetchedAt time.Time) string {
	return StyleYellow.Render("⚠ offline") + " " +
		Dim("showing cached copy from "+HumanTimestampFrom(fetchedAt, time.Now()))
}
