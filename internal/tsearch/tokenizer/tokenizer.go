// Package tokenizer turns raw document and query text into normalized,
// deduplicated token sets. Tokenization is pure and deterministic: the same
// (text, stopwords) pair always produces the same set, which is what lets a
// filter built at index time and a query probed at search time agree.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// separators is the punctuation set that splits tokens, in addition to
// Unicode whitespace. Hyphens are a separator by design: "x-y" yields
// {x, y}, not {x-y}.
const separators = ".,;:!?()[]{}\"'`~@#$%^&*=+/\\|<>-"

// Tokenize strips HTML-like markup, lowercases, splits on whitespace and
// punctuation, and drops empty tokens and stopwords. It never fails: on any
// input it returns a (possibly empty) token set.
func Tokenize(text string, stopwords types.TokenSet) types.TokenSet {
	stripped := stripTags(text)
	lowered := strings.ToLower(stripped)

	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		return strings.ContainsRune(separators, r)
	})

	set := make(types.TokenSet, len(fields))
	for _, f := range fields {
		if len(f) < 1 {
			continue
		}
		tok := types.Token(f)
		if _, stop := stopwords[tok]; stop {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// stripTags drops everything between '<' and the next '>', using a
// permissive scanner: an unterminated '<' drops everything to end of input,
// matching spec behavior for ill-formed tags rather than erroring.
func stripTags(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inTag := false
	for _, r := range text {
		if inTag {
			if r == '>' {
				inTag = false
			}
			continue
		}
		if r == '<' {
			inTag = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
