package parser

import "strings"

// normalizeWhitespace collapses every run of unicode whitespace (newlines and
// non-breaking spaces included) into a single space and trims the ends
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
