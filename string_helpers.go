package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeCityName standardizes a city name for use in cache keys: it
// removes diacritical marks (e.g. "Wrocław" becomes "Wroclaw"), lowercases
// the result, and collapses surrounding whitespace. This keeps "New York",
// "new york" and " NEW YORK " on the same cache entry.
func normalizeCityName(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("input string is not valid UTF-8")
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(result)), nil
}
