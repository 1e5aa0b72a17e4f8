package translate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ResolveLanguage turns a BCP 47 code such as "fr" or "pt-BR" into its
// English name for the prompt. Anything that is not a known tag, such as
// "French" or "Klingon", is returned trimmed but otherwise as given.
func ResolveLanguage(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	tag, err := language.Parse(s)
	if err != nil {
		return s
	}

	name := display.English.Tags().Name(tag)
	if name == "" {
		return s
	}
	return name
}

// SameLanguage reports whether a and b name the same language, comparing
// codes and names case-insensitively.
func SameLanguage(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(ResolveLanguage(a), ResolveLanguage(b))
}
