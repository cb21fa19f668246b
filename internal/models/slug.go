package models

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	nonSlugCharset = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives the URL-safe club slug from a display name: lowercase,
// whitespace runs (Unicode spaces included) become a single hyphen, anything
// outside [a-z0-9-] is dropped. Surrounding whitespace is trimmed first so a
// slug never starts or ends with a hyphen made of padding.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugCharset.ReplaceAllString(s, "")
}
