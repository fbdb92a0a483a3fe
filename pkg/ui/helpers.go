package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads s with spaces to exactly width cells, truncating when wider.
func padRight(s string, width int) string {
	s = truncateRunesHelper(s, width, "…")
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// fitLeftRight places left and right in width cells, shortening left
// first. right is dropped when even a four-cell left would not fit.
func fitLeftRight(left, right string, width int) string {
	rw := runewidth.StringWidth(right)
	if right == "" || rw+5 > width {
		return padRight(left, width)
	}
	return padRight(left, width-rw-1) + " " + right
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
