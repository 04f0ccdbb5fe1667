package concept

import (
	"regexp"
	"strings"
)

var (
	parenRegex      = regexp.MustCompile(`\([^)]*\)`)
	separatorRegex  = regexp.MustCompile(`[-_]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	articleRegex    = regexp.MustCompile(`^(the|a|an)\s+`)
)

// Normalize canonicalizes a concept name for comparison purposes only.
// Normalize(Normalize(s)) == Normalize(s) for any s.
func Normalize(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = parenRegex.ReplaceAllString(s, "")
	s = separatorRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))

	// "the an x" must normalize like "an x"
	for {
		stripped := strings.TrimSpace(articleRegex.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}
