package woo

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSlugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	reSpaces      = regexp.MustCompile(`\s+`)

	// NFD-decompose, strip combining marks, recompose: "Categoría" → "Categoria".
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives the URL-safe identifier Woo uses for a term name:
// lowercase, diacritics stripped, non-alphanumeric runs collapsed to a
// single hyphen, leading/trailing hyphens trimmed. If nothing survives the
// transliteration the raw name with spaces hyphenated is used instead.
func Slugify(name string) string {
	lowered := strings.ToLower(name)
	ascii, _, err := transform.String(deaccent, lowered)
	if err != nil {
		ascii = lowered
	}
	slug := reSlugInvalid.ReplaceAllString(ascii, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return reSpaces.ReplaceAllString(strings.TrimSpace(lowered), "-")
	}
	return slug
}
