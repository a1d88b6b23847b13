// Package sanitizer normalizes free-text input (group member labels,
// review comments, catalog names) before validation and storage.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeMemberLabel cleans a group member's display label ("Person 1").
func NormalizeMemberLabel(label string) string {
	return TrimAndNormalize(label)
}

// NormalizeName cleans a catalog service name.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeComment cleans a review comment, dropping control characters
// but keeping the customer's wording intact otherwise.
func NormalizeComment(comment string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, comment)
	return strings.TrimSpace(cleaned)
}

// NormalizeCategory lowercases and cleans a catalog category label.
func NormalizeCategory(category string) string {
	return strings.ToLower(TrimAndNormalize(category))
}
