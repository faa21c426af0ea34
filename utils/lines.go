package utils

import (
	"strings"
)

// OriginMaxLength bounds the description kept on bank records.
const OriginMaxLength = 75

// SplitLines splits extracted page text into lines. Blank lines are kept:
// engines look at neighbouring lines by position.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Truncate keeps the first max runes of s and always appends "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		r = r[:max]
	}
	return string(r) + "..."
}
