package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// NotAvailable is shown for missing values
const NotAvailable = "N/A"

// DefaultTruncate is the overview length used in listings
const DefaultTruncate = 150

// FormatDate renders a YYYY-MM-DD date as "October 15, 1999".
// Dates that don't parse are returned unchanged.
func FormatDate(date string) string {
	if date == "" {
		return NotAvailable
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatRuntime renders minutes as "2h 19m" or "45m"
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatRating renders a vote average with one decimal
func FormatRating(rating float64) string {
	if rating == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", rating)
}

// FormatText returns s, or N/A when empty
func FormatText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// Truncate cuts s to max runes and appends "..." when anything was cut
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// FitWidth shortens s so that it occupies at most width cells, ellipsis included
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// pad right-pads s with spaces to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wordWrap breaks text on spaces so no line exceeds width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		wl := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+wl > width {
			b.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += wl
	}
	return b.String()
}
