// Package schema describes how a document's fields map into the search
// index: which fields feed the filter, which feed the echoed metadata, and
// which field names the URL. Loading a schema from an external config file
// is a collaborator concern (spec.md §1); this package only models the
// resulting value.
package schema

import "github.com/tinysearch/tinysearch/internal/tsearch/types"

// MetadataSeparator joins configured metadata fields into a single opaque
// PostId.Meta string. This is observable to callers (spec.md §4.3 step 3
// requires the policy be fixed and documented), so it must never change
// without a format version bump.
const MetadataSeparator = "\x1f" // ASCII unit separator

// Schema configures IndexBuilder's field policy and the Tokenizer's
// stopword list.
type Schema struct {
	// IndexedFields names the Document fields concatenated (in order,
	// separated by a single space) into the text handed to the tokenizer.
	// Default: ["title", "body"].
	IndexedFields []string

	// MetadataFields names the Document fields concatenated (in order,
	// separated by MetadataSeparator) into PostId.Meta. Default: [] (falls
	// back to the single "meta" field).
	MetadataFields []string

	// URLField names the Document field that supplies PostId.URL. Default:
	// "url".
	URLField string

	// Stopwords replaces the tokenizer's default stopword set when
	// non-nil.
	Stopwords types.TokenSet
}

// Default returns the schema spec.md §6 describes as the default: title and
// body indexed, no extra metadata fields, "url" as the URL field, and the
// built-in stopword list (via a nil Stopwords, resolved by callers that know
// about tokenizer.DefaultStopwords — schema stays free of a tokenizer
// import to avoid a needless package edge).
func Default() Schema {
	return Schema{
		IndexedFields:  []string{"title", "body"},
		MetadataFields: nil,
		URLField:       "url",
		Stopwords:      nil,
	}
}

// Field looks up a named field on a Document, covering both the built-in
// fields (title, url, body, meta) and anything a custom schema declared
// into Document.Extra.
func Field(doc types.Document, name string) (string, bool) {
	switch name {
	case "title":
		return doc.Title, true
	case "url":
		return doc.URL, true
	case "body":
		return doc.Body, true
	case "meta":
		return doc.Meta, true
	default:
		v, ok := doc.Extra[name]
		return v, ok
	}
}
