package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for keyword normalization
var (
	// Matches anything that is not a letter, digit or space
	keywordPunctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

	// Multiple spaces cleanup
	keywordSpaces = regexp.MustCompile(`\s+`)
)

// normalizeKeyword lowercases s, turns punctuation into spaces and collapses whitespace,
// so "Work/Productivity" and "work productivity" compare equal
func normalizeKeyword(s string) string {
	cleaned := keywordPunctuation.ReplaceAllString(strings.ToLower(s), " ")
	cleaned = keywordSpaces.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// containsAnyKeyword reports whether any text mentions any keyword as a whole word
// or phrase. Matching is case and punctuation insensitive.
func containsAnyKeyword(texts []string, keywords ...string) bool {
	for _, text := range texts {
		padded := " " + normalizeKeyword(text) + " "
		for _, kw := range keywords {
			needle := normalizeKeyword(kw)
			if needle == "" {
				continue
			}
			if strings.Contains(padded, " "+needle+" ") {
				return true
			}
		}
	}
	return false
}

// sharedTags returns the normalized tags present in both lists, in the order of a.
// Duplicates are reported once.
func sharedTags(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, tag := range b {
		if n := normalizeKeyword(tag); n != "" {
			inB[n] = true
		}
	}

	var shared []string
	seen := make(map[string]bool)
	for _, tag := range a {
		n := normalizeKeyword(tag)
		if n == "" || seen[n] || !inB[n] {
			continue
		}
		seen[n] = true
		shared = append(shared, n)
	}
	return shared
}
