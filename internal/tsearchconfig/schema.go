// Package tsearchconfig loads schema configuration from a JSON file. This
// is the "loading" half of spec.md §6's schema configuration surface; the
// type itself lives in internal/tsearch/schema and stays free of any
// file-format or flag-parsing concern.
package tsearchconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tinysearch/tinysearch/internal/tsearch/schema"
	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// schemaFile mirrors schema.Schema's fields in their JSON wire shape.
type schemaFile struct {
	IndexedFields  []string `json:"indexed_fields"`
	MetadataFields []string `json:"metadata_fields"`
	URLField       string   `json:"url_field"`
	Stopwords      []string `json:"stopwords"`
}

// LoadSchema reads and decodes a schema configuration file at path. An
// empty path returns schema.Default() unchanged, so callers can wire a
// "-schema" flag straight through without a separate empty-string check.
func LoadSchema(path string) (schema.Schema, error) {
	if path == "" {
		return schema.Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("read schema file %s: %w", path, err)
	}

	var sf schemaFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return schema.Schema{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	sc := schema.Schema{
		IndexedFields:  sf.IndexedFields,
		MetadataFields: sf.MetadataFields,
		URLField:       sf.URLField,
	}
	// sf.Stopwords is nil only when the field is absent from the JSON
	// entirely; an explicit "stopwords": [] decodes to a non-nil empty
	// slice, and must produce a non-nil empty TokenSet rather than falling
	// back to schema.Schema's nil-means-default-list semantics.
	if sf.Stopwords != nil {
		tokens := make([]types.Token, len(sf.Stopwords))
		for i, w := range sf.Stopwords {
			tokens[i] = types.Token(w)
		}
		sc.Stopwords = types.NewTokenSet(tokens)
	}
	return sc, nil
}
