package models

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const MaxSlugLength = 50

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
)

// Slugify transliterates s to ASCII and reduces it to lowercase words joined
// by hyphens, truncated to MaxSlugLength on a word boundary when possible.
func Slugify(s string) string {
	slug := strings.ToLower(unidecode.Unidecode(s))
	slug = strings.Trim(nonSlugChars.ReplaceAllString(slug, "-"), "-")
	if len(slug) <= MaxSlugLength {
		return slug
	}
	slug = slug[:MaxSlugLength]
	if i := strings.LastIndexByte(slug, '-'); i > 0 {
		slug = slug[:i]
	}
	return strings.Trim(slug, "-")
}

// ValidSlug reports whether s is already in slug form.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && validSlug.MatchString(s)
}
