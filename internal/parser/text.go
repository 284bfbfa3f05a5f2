package parser

import (
	"html"
	"strings"
	"unicode"
)

// cleanCellText HTML-decodes a cell and collapses runs of whitespace
// (including non-breaking spaces) into single spaces.
func cleanCellText(value string) string {
	unescaped := html.UnescapeString(value)

	var builder strings.Builder
	builder.Grow(len(unescaped))

	previousSpace := false
	for _, r := range unescaped {
		if unicode.IsSpace(r) {
			if !previousSpace {
				builder.WriteRune(' ')
				previousSpace = true
			}

			continue
		}

		builder.WriteRune(r)
		previousSpace = false
	}

	return strings.TrimSpace(builder.String())
}
