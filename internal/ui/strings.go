package ui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// titleCase converts an underscore-separated string to title case.
func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// formatDistance renders a distance in kilometers, dropping the decimals
// when they are zero. Unknown distances render as a dash.
func formatDistance(km float64) string {
	if km <= 0 {
		return "–"
	}
	if km == float64(int64(km)) {
		return fmt.Sprintf("%d km", int64(km))
	}
	return fmt.Sprintf("%.1f km", km)
}

// formatFee renders an entry fee in euros. Free races render as such.
func formatFee(fee float64) string {
	if fee <= 0 {
		return "free"
	}
	if fee == float64(int64(fee)) {
		return fmt.Sprintf("%d €", int64(fee))
	}
	return fmt.Sprintf("%.2f €", fee)
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
