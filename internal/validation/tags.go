package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const maxTagNameLength = 50

// ValidateTagName checks a single free-text tag name.
func ValidateTagName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	if len(trimmed) > maxTagNameLength {
		return fmt.Errorf("tag name must not exceed %d characters", maxTagNameLength)
	}
	return nil
}

// Slugify derives a URL-safe slug from a tag name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, no leading or
// trailing hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
