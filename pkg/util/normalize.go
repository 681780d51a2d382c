package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that carry no combining mark and so survive decomposition
var foldLetters = strings.NewReplacer(
	"ı", "i",
	"ł", "l",
	"Ł", "l",
	"ø", "o",
	"Ø", "o",
	"đ", "d",
	"Đ", "d",
	"ß", "ss",
)

// Normalize lowercases s and folds accented letters to their base Latin form,
// so "İstanbul", "Istanbul" and "istanbul" all become "istanbul".
func Normalize(s string) string {
	// transformers keep state, so the chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(foldLetters.Replace(folded))
}

// ContainsFolded reports whether needle, after normalization, occurs in haystack.
// needle is expected to be normalized already.
func ContainsFolded(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), needle)
}
