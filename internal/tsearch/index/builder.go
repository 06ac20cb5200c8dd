package index

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tinysearch/tinysearch/internal/tsearch/filter"
	"github.com/tinysearch/tinysearch/internal/tsearch/schema"
	"github.com/tinysearch/tinysearch/internal/tsearch/tokenizer"
	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// Builder assembles an Index from a corpus of Documents (spec.md §4.3). A
// zero Builder behaves like NewBuilder(schema.Default()): Build falls back to
// the default fields, URL field and stopwords for an empty Schema, and to
// filter.NewBuilder() for a nil FilterBuilder.
type Builder struct {
	Schema        schema.Schema
	FilterBuilder *filter.Builder

	// Strict aborts the whole build on the first per-document error
	// instead of collecting it and continuing. spec.md §9 leaves this an
	// open question and recommends permissive-by-default with a strict
	// opt-in; DESIGN.md records that decision.
	Strict bool
}

// NewBuilder returns a permissive Builder for the given schema, using the
// default XOR filter builder.
func NewBuilder(sc schema.Schema) *Builder {
	return &Builder{
		Schema:        sc,
		FilterBuilder: filter.NewBuilder(),
	}
}

// Build constructs filters for every document and assembles the Index. Per
// spec.md §4.3 step 5, a document that fails is reported in the returned
// error slice but does not abort the build unless b.Strict is set.
func (b *Builder) Build(docs []types.Document) (*Index, []*BuildError) {
	stop := b.Schema.Stopwords
	if stop == nil {
		stop = tokenizer.DefaultStopwords()
	}

	fb := b.FilterBuilder
	if fb == nil {
		fb = filter.NewBuilder()
	}

	entries := make([]Entry, 0, len(docs))
	var errs []*BuildError

	for i, doc := range docs {
		post, serr := b.postID(doc, i)
		if serr != nil {
			errs = append(errs, serr)
			if b.Strict {
				return New(entries), errs
			}
			continue
		}

		text := b.combinedText(doc)
		tokens := tokenizer.Tokenize(text, stop)

		f, err := fb.Build(tokens)
		if err != nil {
			ferr := filterBuildFailed(i, err)
			errs = append(errs, ferr)
			if b.Strict {
				return New(entries), errs
			}
			continue
		}

		entries = append(entries, Entry{Post: post, Filter: f})
	}

	return New(entries), errs
}

// BuildAndSerialize is the convenience form of Build + Serialize.
func (b *Builder) BuildAndSerialize(docs []types.Document) ([]byte, []*BuildError, error) {
	ix, errs := b.Build(docs)
	var buf bytes.Buffer
	if err := Serialize(ix, &buf); err != nil {
		return nil, errs, err
	}
	return buf.Bytes(), errs, nil
}

// postID validates the required fields and builds the document's PostId.
// Title is always the fixed "title" field; the URL field name is
// schema-configurable (spec.md §6's url_field).
func (b *Builder) postID(doc types.Document, docIndex int) (types.PostId, *BuildError) {
	if doc.Title == "" {
		return types.PostId{}, schemaMismatch(docIndex, `missing required field "title"`)
	}

	urlField := b.Schema.URLField
	if urlField == "" {
		urlField = "url"
	}
	url, ok := schema.Field(doc, urlField)
	if !ok || url == "" {
		return types.PostId{}, schemaMismatch(docIndex, fmt.Sprintf("missing required field %q", urlField))
	}

	return types.PostId{Title: doc.Title, URL: url, Meta: b.metaFor(doc)}, nil
}

// metaFor joins the schema's declared metadata fields with the fixed
// metadata separator (schema.MetadataSeparator). With no metadata fields
// declared, it falls back to the document's single "meta" field.
func (b *Builder) metaFor(doc types.Document) string {
	fields := b.Schema.MetadataFields
	if len(fields) == 0 {
		return doc.Meta
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, _ := schema.Field(doc, f)
		parts = append(parts, v)
	}
	return strings.Join(parts, schema.MetadataSeparator)
}

// combinedText concatenates the schema's indexed fields with a single space
// (spec.md §4.3 step 1). Unknown or absent fields contribute an empty
// string rather than an error.
func (b *Builder) combinedText(doc types.Document) string {
	fields := b.Schema.IndexedFields
	if len(fields) == 0 {
		fields = []string{"title", "body"}
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, _ := schema.Field(doc, f)
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}
