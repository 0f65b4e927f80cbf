package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize produces the cross-source join key for a name: lowercased,
// canonically decomposed with combining marks stripped, and trimmed.
// Normalizing an already-normalized string is a no-op.
func Normalize(name string) string {
	lowered := strings.ToLower(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.TrimSpace(lowered)
	}
	return strings.TrimSpace(stripped)
}

// Capitalize title-cases a name, handling hyphenated forms like Jean-Pierre.
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	parts := strings.Split(name, "-")
	for i, p := range parts {
		parts[i] = capitalizePart(p)
	}
	return strings.Join(parts, "-")
}

// CapitalizeWords title-cases each space-separated word, as used for Spanish
// multi-word names like Maria Del Carmen.
func CapitalizeWords(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		words[i] = capitalizePart(w)
	}
	return strings.Join(words, " ")
}

func capitalizePart(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
