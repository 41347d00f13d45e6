package namematch

import (
	"regexp"
	"strings"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Normalize lowercases a name, strips periods and commas, and collapses
// internal whitespace. Normalize is idempotent.
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.ReplaceAll(lowered, ".", "")
	lowered = strings.ReplaceAll(lowered, ",", "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(lowered, " "))
}

// Tokenize splits a normalized name into its words, preserving order.
func Tokenize(name string) []string {
	normalized := Normalize(name)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
