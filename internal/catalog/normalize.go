// SPDX-License-Identifier: MIT

package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldTitle canonicalises a title for comparison: trimmed, lowercased and
// with diacritics stripped, so "Reseña" and "resena" compare equal.
func FoldTitle(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.TrimSpace(s))
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw string.
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}

// TitleCaseGenre normalises a genre label for statistics buckets, matching
// how the statistics endpoint groups genres ("accion" -> "Accion").
func TitleCaseGenre(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
