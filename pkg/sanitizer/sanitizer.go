// Package sanitizer normalizes free-text input before it reaches
// validation: names, department labels, registration plates and phone
// numbers all pass through here on the way into the store.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	rePlateChars      = regexp.MustCompile(`[^0-9A-Z-]+`)
	reMultiDash       = regexp.MustCompile(`-+`)
	reKeepLettersOnly = regexp.MustCompile(`[^\p{L} ]+`)
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

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeDepartment(department string) string {
	s := TrimAndNormalize(department)
	return reKeepLettersOnly.ReplaceAllString(s, "")
}

// NormalizePlate upper-cases a registration number and strips everything
// but digits, letters and dashes, so "ab 123-cd" and "AB123CD" compare
// equal in the uniqueness check.
func NormalizePlate(plate string) string {
	s := strings.ToUpper(TrimAndNormalize(plate))
	s = strings.ReplaceAll(s, " ", "-")
	s = rePlateChars.ReplaceAllString(s, "")
	s = reMultiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
