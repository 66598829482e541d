package solver

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize uppercases text and strips combining marks, so "é" and "E"
// compare equal. Non-alphabetic runes pass through.
func Normalize(text string) string {
	upper := strings.ToUpper(text)
	// transformers keep state, build a fresh chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, upper)
	if err != nil {
		return upper
	}
	return out
}
