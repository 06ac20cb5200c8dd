// Package query implements the search side of the engine: tokenize a query,
// probe every document's filter, rank by match count, and return the top N
// PostIds (spec.md §4.4).
package query

import (
	"sort"

	"github.com/tinysearch/tinysearch/internal/tsearch/index"
	"github.com/tinysearch/tinysearch/internal/tsearch/tokenizer"
	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// Engine searches an Index. It holds no mutable state of its own; the same
// Engine value can serve concurrent readers of an Index safely, since an
// Index is immutable after build (spec.md §5).
type Engine struct {
	Stopwords types.TokenSet
}

// NewEngine returns an Engine using the built-in stopword list. Callers
// with a custom schema should set Stopwords to the same set the index was
// built with, or query tokens won't match the tokens the filters hold.
func NewEngine() *Engine {
	return &Engine{Stopwords: tokenizer.DefaultStopwords()}
}

type scored struct {
	entryIndex int
	score      int
}

// Search tokenizes query with the same tokenizer configuration used at
// build time, probes every document's filter, and returns up to numResults
// PostIds ordered by (score DESC, insertion order ASC). A query that
// tokenizes to nothing returns an empty slice. Search never fails; an empty
// result is a valid outcome, not an error (spec.md §4.4).
func (e *Engine) Search(ix *index.Index, query string, numResults int) []*types.PostId {
	stop := e.Stopwords
	if stop == nil {
		stop = tokenizer.DefaultStopwords()
	}

	queryTokens := tokenizer.Tokenize(query, stop).Slice()
	if len(queryTokens) == 0 {
		return nil
	}

	entries := ix.Entries()
	candidates := make([]scored, 0, len(entries))
	for i, e := range entries {
		score := 0
		for _, tok := range queryTokens {
			if e.Filter.Contains(tok) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{entryIndex: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].entryIndex < candidates[j].entryIndex
	})

	if numResults < 0 {
		numResults = 0
	}
	if numResults < len(candidates) {
		candidates = candidates[:numResults]
	}

	results := make([]*types.PostId, len(candidates))
	for i, c := range candidates {
		results[i] = &entries[c.entryIndex].Post
	}
	return results
}
