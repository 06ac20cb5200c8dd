package tokenizer

import "github.com/tinysearch/tinysearch/internal/tsearch/types"

// defaultStopwordList is the built-in English stopword list: articles,
// pronouns, common auxiliaries, and prepositions. Process-wide static data;
// overrides are per-schema, carried in the builder value (see schema.Schema).
//
// Entries are post-split forms, not surface contractions: the tokenizer
// treats "'" as a separator (spec.md §4.1 step 3), so "don't" tokenizes to
// {don, t}, not {don't}. The fragments left behind by common contractions
// ("t", "d", "s", "ll", "re", "ve", "m") are included below so they are
// filtered out like any other stopword rather than leaking into filters.
var defaultStopwordList = []string{
	"a", "about", "above", "after", "again", "all", "am", "an", "and", "any",
	"are", "aren", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "cannot", "could",
	"couldn", "d", "did", "didn", "do", "does", "doesn", "doing", "don",
	"down", "during", "each", "few", "for", "from", "further", "had",
	"hadn", "has", "hasn", "have", "haven", "having", "he", "her", "here",
	"hers", "herself", "him", "himself", "his", "how", "i", "if", "in",
	"into", "is", "isn", "it", "its", "itself", "ll", "m", "me", "more",
	"most", "mustn", "my", "myself", "no", "nor", "not", "of", "off", "on",
	"once", "only", "or", "other", "ought", "our", "ours", "ourselves",
	"out", "over", "own", "re", "s", "same", "shan", "she", "should",
	"shouldn", "so", "some", "such", "t", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they",
	"this", "those", "through", "to", "too", "under", "until", "up", "ve",
	"very", "was", "wasn", "we", "were", "weren", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "won", "would",
	"wouldn", "you", "your", "yours", "yourself", "yourselves",
}

// DefaultStopwords returns a fresh copy of the built-in stopword set.
func DefaultStopwords() types.TokenSet {
	set := make(types.TokenSet, len(defaultStopwordList))
	for _, w := range defaultStopwordList {
		set[types.Token(w)] = struct{}{}
	}
	return set
}
