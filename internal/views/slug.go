package views

import (
	"regexp"
	"strings"
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	nonWord  = regexp.MustCompile(`[^\w-]`)
)

// Slugify derives a URL slug from a category or offer name.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = spaceRun.ReplaceAllString(s, "-")
	return nonWord.ReplaceAllString(s, "")
}
