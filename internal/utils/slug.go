// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
)

// Characters outside latin letters, digits, the Arabic/Persian block and
// whitespace get stripped before hyphenation.
var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06FF}\s]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL slug from a product or article name. The derivation
// is idempotent: slugifying a slug returns it unchanged.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	return strings.Trim(slug, "-")
}
