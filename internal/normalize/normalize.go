// Package normalize cleans scraped table cells: footnote markers, thousands
// separators, and "A to B" range expressions.
package normalize

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
)

const rangeSeparator = " to "

// Label removes trailing uppercase footnote letters from a label.
// Internal characters are untouched; a label consisting entirely of
// uppercase letters reduces to the empty string.
func Label(text string) string {
	for len(text) > 0 {
		r, size := utf8.DecodeLastRuneInString(text)
		if !unicode.IsUpper(r) {
			break
		}

		text = text[:len(text)-size]
	}

	return text
}

// Number parses one casualty figure. It handles comma thousands separators,
// bracketed footnote references, "+" signs, footnote letters fused onto the
// number, and two estimates joined by " to ", which yield the mean of the
// endpoints. The second return is false when no valid number can be
// recovered; a range with more than two parts, or with an endpoint that does
// not parse, is rejected as a whole rather than reduced to a partial value.
func Number(text string) (float64, bool) {
	if !strings.Contains(text, rangeSeparator) {
		return parseOne(text)
	}

	parts := strings.Split(text, rangeSeparator)
	if len(parts) != 2 {
		return 0, false
	}

	low, ok := parseOne(parts[0])
	if !ok {
		return 0, false
	}

	high, ok := parseOne(parts[1])
	if !ok {
		return 0, false
	}

	mean, err := stats.Mean([]float64{low, high})
	if err != nil {
		return 0, false
	}

	return mean, true
}

func parseOne(text string) (float64, bool) {
	text = strings.TrimSpace(text)

	if i := strings.IndexByte(text, '['); i >= 0 {
		text = text[:i]
	}

	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "+", "")
	text = strings.TrimSpace(text)

	if endsWithUpper(text) {
		text = numericPrefix(text)
	}

	if text == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

func endsWithUpper(text string) bool {
	r, _ := utf8.DecodeLastRuneInString(text)

	return unicode.IsUpper(r)
}

// numericPrefix returns the longest leading prefix of text matching
// sign? digits ('.' digits*)? in a single left-to-right scan. It returns the
// empty string when text does not start with a number.
func numericPrefix(text string) string {
	i := 0
	if i < len(text) && text[i] == '-' {
		i++
	}

	digitsStart := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}

	if i == digitsStart {
		return ""
	}

	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
		}
	}

	return text[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
