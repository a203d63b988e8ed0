package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// spanishReplacer folds Spanish accented letters to their ASCII base.
var spanishReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n", "à", "a", "è", "e", "ò", "o",
)

// Generate creates a URL-friendly slug from the given product or category name.
// Spanish accented characters are transliterated to ASCII.
//
// Examples:
//   - "Fernet Branca 750ml" → "fernet-branca-750ml"
//   - "Vino Malbec Añejo" → "vino-malbec-anejo"
//   - "Cerveza   Quilmes!" → "cerveza-quilmes"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = spanishReplacer.Replace(slug)

	// Any run of non-alphanumerics becomes a single hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
