package intent

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// nonWord matches runs of anything that is not a word rune or whitespace.
var nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)

// Normalize lowercases text, replaces punctuation with spaces and collapses
// whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWord.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Tokens returns the whitespace tokens of the normalized text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// Expand returns tokens together with every synonym group any of them
// belongs to. The result has no duplicates; each token is followed by the
// groups it triggered, in table order.
func Expand(tokens []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(words ...string) {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}

	for _, tok := range tokens {
		add(tok)
		for _, group := range synonyms {
			if tok == group.key || slices.Contains(group.words, tok) {
				add(group.key)
				add(group.words...)
			}
		}
	}
	return out
}

// isTitle reports whether word is title-cased: it has at least one cased
// letter, uppercase letters only follow uncased runes and lowercase letters
// only follow cased ones.
func isTitle(word string) bool {
	cased := false
	prevCased := false
	for _, r := range word {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
