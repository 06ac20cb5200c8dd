package index

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tinysearch/tinysearch/internal/tsearch/schema"
	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

func doc(title, url, body string) types.Document {
	return types.Document{Title: title, URL: url, Body: body}
}

func TestBuilder_BuildAssignsInsertionOrder(t *testing.T) {
	docs := []types.Document{
		doc("Rust async", "/a", ""),
		doc("Rust basics", "/b", ""),
		doc("Python async", "/c", ""),
	}
	ix, errs := NewBuilder(schema.Default()).Build(docs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if ix.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", ix.Len())
	}
	wantURLs := []string{"/a", "/b", "/c"}
	for i, e := range ix.Entries() {
		if e.Post.URL != wantURLs[i] {
			t.Errorf("entry %d: got url %q, want %q", i, e.Post.URL, wantURLs[i])
		}
	}
}

func TestBuilder_SchemaMismatchIsCollectedNotFatal(t *testing.T) {
	docs := []types.Document{
		doc("Good", "/good", ""),
		{Title: "", URL: "/missing-title", Extra: map[string]string{}},
		doc("Also good", "/also-good", ""),
	}
	ix, errs := NewBuilder(schema.Default()).Build(docs)
	if len(errs) != 1 {
		t.Fatalf("expected 1 collected error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != KindSchemaMismatch || errs[0].DocumentIndex != 1 {
		t.Fatalf("unexpected error: %+v", errs[0])
	}
	if ix.Len() != 2 {
		t.Fatalf("expected the 2 valid documents to still build, got %d", ix.Len())
	}
}

func TestBuilder_StrictAbortsOnFirstError(t *testing.T) {
	docs := []types.Document{
		doc("Good", "/good", ""),
		{Title: "", URL: "/missing-title"},
		doc("Never reached", "/never", ""),
	}
	b := NewBuilder(schema.Default())
	b.Strict = true
	ix, errs := b.Build(docs)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error before abort, got %d", len(errs))
	}
	if ix.Len() != 1 {
		t.Fatalf("expected only the document before the failure to be indexed, got %d", ix.Len())
	}
}

func TestBuilder_MetadataFieldsJoinWithSeparator(t *testing.T) {
	sc := schema.Default()
	sc.MetadataFields = []string{"author", "category"}
	d := doc("Post", "/p", "")
	d.Extra = map[string]string{"author": "ada", "category": "eng"}

	ix, errs := NewBuilder(sc).Build([]types.Document{d})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := "ada" + schema.MetadataSeparator + "eng"
	if got := ix.Entries()[0].Post.Meta; got != want {
		t.Fatalf("meta = %q, want %q", got, want)
	}
}

func TestRoundTrip_SerializeDeserialize(t *testing.T) {
	docs := []types.Document{
		doc("Rust async", "/a", "Learning async rust patterns"),
		doc("Rust basics", "/b", "An introduction to rust"),
		doc("Python async", "/c", "Async patterns in python"),
	}
	ix, errs := NewBuilder(schema.Default()).Build(docs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var buf bytes.Buffer
	if err := Serialize(ix, &buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	decoded, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.Len() != ix.Len() {
		t.Fatalf("decoded length %d != original %d", decoded.Len(), ix.Len())
	}
	for i, e := range ix.Entries() {
		de := decoded.Entries()[i]
		if de.Post != e.Post {
			t.Fatalf("entry %d PostId mismatch: %+v != %+v", i, de.Post, e.Post)
		}
		if !de.Filter.Contains("rust") && !de.Filter.Contains("async") && !de.Filter.Contains("python") {
			t.Fatalf("entry %d lost all membership after round trip", i)
		}
	}
}

func TestDeserialize_RejectsBadMagic(t *testing.T) {
	_, err := Deserialize(bytes.NewReader([]byte("XXXX\x01\x00")))
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != KindCorrupt {
		t.Fatalf("expected a Corrupt FatalError, got %v", err)
	}
}

func TestDeserialize_RejectsUnknownVersion(t *testing.T) {
	buf := append([]byte(magic), 0xFF, 0x00)
	_, err := Deserialize(bytes.NewReader(buf))
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != KindUnsupportedVersion {
		t.Fatalf("expected an UnsupportedVersion FatalError, got %v", err)
	}
}

func TestParsePosts_InvalidJSON(t *testing.T) {
	_, err := ParsePosts([]byte("not json"))
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != KindInvalidJson {
		t.Fatalf("expected an InvalidJson FatalError, got %v", err)
	}
}

func TestParsePosts_DefaultSchema(t *testing.T) {
	docs, err := ParsePosts([]byte(`[
		{"title":"Rust Programming","url":"/rust","body":"systems programming"},
		{"title":"JS Basics","url":"/js","meta":null}
	]`))
	if err != nil {
		t.Fatalf("ParsePosts: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Title != "Rust Programming" || docs[0].URL != "/rust" || docs[0].Body != "systems programming" {
		t.Fatalf("unexpected doc[0]: %+v", docs[0])
	}
	if docs[1].Meta != "" {
		t.Fatalf("expected null meta to decode to empty string, got %q", docs[1].Meta)
	}
}
