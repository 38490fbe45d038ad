// Package fuzzy implements the diacritic-insensitive matcher used by local search.
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// Normalize folds s to lowercase and strips diacritics.
// The Vietnamese đ/Đ has no decomposition, so it is transliterated explicitly.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = dStroke.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Matches reports whether query matches candidate, either as a substring or as an
// in-order subsequence of the normalized candidate. Empty inputs never match.
func Matches(candidate, query string) bool {
	if candidate == "" || query == "" {
		return false
	}
	text := Normalize(candidate)
	q := Normalize(query)
	if q == "" {
		return false
	}
	if strings.Contains(text, q) {
		return true
	}
	return isSubsequence(text, q)
}

// MatchesAny reports whether query matches at least one of the candidates.
func MatchesAny(query string, candidates ...string) bool {
	for _, c := range candidates {
		if Matches(c, query) {
			return true
		}
	}
	return false
}

func isSubsequence(text, q string) bool {
	want := []rune(q)
	i := 0
	for _, r := range text {
		if r == want[i] {
			i++
			if i == len(want) {
				return true
			}
		}
	}
	return false
}
