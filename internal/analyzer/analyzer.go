// Package analyzer implements the pure, stateless text analysis steps
// shared by indexing and querying: tokenization and trigram windowing.
// Keeping analysis pure makes index maintenance and query processing
// symmetric and testable in isolation.
package analyzer

import (
	"strings"
	"unicode"

	"github.com/standardbeagle/tgch/internal/document"
)

// sentinel pads a token before trigram windowing, chosen outside the
// normal alphabet so it can never collide with a real code point.
const sentinel = '\u0002'

// TokensOf normalizes text and splits it into tokens: each rune is
// lowercased with unicode.ToLower, and text is split on any run of
// characters that is neither a letter nor a digit, which also strips
// leading/trailing punctuation. No Unicode normalization (NFKC or
// otherwise) is applied, so compatibility forms such as ligatures or
// full-width letters are not folded. Empty tokens are discarded. Order is preserved and duplicates are retained so
// callers can compute term frequency.
func TokensOf(text string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TrigramsOf returns the padded trigram windows of a single token: pad
// with two sentinels at the start and one at the end, then take every
// window of length 3, the standard trigram-indexing pad (as in
// pg_trgm's leading/trailing blanks). A token of length L yields L+1
// trigrams. Tokens shorter than one code point yield no trigrams and
// are dropped from indexing.
func TrigramsOf(token string) []string {
	return AppendTrigrams(nil, token)
}

// AppendTrigrams appends the padded trigram windows of token to dst and
// returns the extended slice, in the style of strconv.AppendInt. Callers
// that generate trigrams in a hot loop can pass a reusable buffer (e.g.
// one drawn from a pool) instead of forcing a fresh allocation per call.
func AppendTrigrams(dst []string, token string) []string {
	runes := []rune(token)
	if len(runes) == 0 {
		return dst
	}

	padded := make([]rune, 0, len(runes)+3)
	padded = append(padded, sentinel, sentinel)
	padded = append(padded, runes...)
	padded = append(padded, sentinel)

	for i := 0; i+3 <= len(padded); i++ {
		dst = append(dst, string(padded[i:i+3]))
	}
	return dst
}

// TokensOfDocument concatenates the tokens of every text field in a
// document; non-text fields are ignored for indexing purposes.
func TokensOfDocument(d *document.Document) []string {
	var all []string
	for _, f := range d.Fields() {
		text, ok := f.Value.Text()
		if !ok {
			continue
		}
		all = append(all, TokensOf(text)...)
	}
	return all
}
