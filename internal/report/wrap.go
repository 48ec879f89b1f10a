// Package report renders analysis results as fixed-width box-drawn text.
// One wrapping implementation feeds every sink, so the terminal view and
// exported files always break lines identically.
package report

import (
	"strings"
	"unicode/utf8"
)

// wrapWords greedily wraps text to width, never splitting a word. A word
// longer than width gets its own line and overflows; explicit newlines in
// the input are respected as paragraph breaks.
func wrapWords(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width {
				current += " " + word
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}

	return lines
}

// padCenter centers s in a field of width runes, preferring the extra
// space on the right when the split is uneven.
func padCenter(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
