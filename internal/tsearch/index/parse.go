package index

import (
	"encoding/json"

	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// ParsePosts decodes the build-time input JSON array (spec.md §6) into
// Documents. Every string-valued field lands in one of the built-in slots
// (title, url, body, meta) or, for any other name, in Document.Extra, where a
// custom schema can refer to it. A null-valued field decodes to the empty
// string; non-string fields are skipped rather than rejected, matching
// spec.md's "unknown fields are ignored" tolerance.
func ParsePosts(data []byte) ([]types.Document, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidJSON(err)
	}

	docs := make([]types.Document, len(raw))
	for i, obj := range raw {
		doc := types.Document{Extra: make(map[string]string, len(obj))}
		for key, value := range obj {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				continue
			}
			switch key {
			case "title":
				doc.Title = s
			case "url":
				doc.URL = s
			case "body":
				doc.Body = s
			case "meta":
				doc.Meta = s
			default:
				doc.Extra[key] = s
			}
		}
		docs[i] = doc
	}
	return docs, nil
}
