package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL-safe identifier from a restaurant name:
// lowercase, strip everything outside [a-z0-9 -], collapse whitespace to
// hyphens, collapse hyphen runs, trim leading/trailing hyphens.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
