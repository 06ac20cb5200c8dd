// Package index assembles whole-corpus indexes from documents and handles
// their canonical "TSCH" wire format. This is the IndexBuilder and Index of
// spec.md §4.3 / §6.
package index

import (
	"bufio"
	"io"

	"github.com/tinysearch/tinysearch/internal/tsearch/filter"
	"github.com/tinysearch/tinysearch/internal/tsearch/types"
	"github.com/tinysearch/tinysearch/internal/tsearch/wire"
)

const (
	magic   = "TSCH"
	version = byte(1)

	// maxDocuments and maxFieldLen guard deserialization against a corrupt
	// length field forcing an unreasonable allocation.
	maxDocuments = 10_000_000
	maxFieldLen  = 16 << 20
)

// Entry is one (PostId, Filter) pair, in document insertion order.
type Entry struct {
	Post   types.PostId
	Filter filter.Filter
}

// Index is the immutable, whole-corpus structure QueryEngine searches:
// an ordered sequence of (PostId, Filter) pairs (spec.md §3). The Index
// exclusively owns its entries; constructing a new Index is the only
// mutation path.
type Index struct {
	entries []Entry
}

// New wraps a slice of entries, already in insertion order, as an Index.
func New(entries []Entry) *Index {
	return &Index{entries: entries}
}

// Len returns the number of documents in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns the index's entries in insertion order. Callers must
// treat the returned slice as read-only; it is borrowed, not copied.
func (ix *Index) Entries() []Entry { return ix.entries }

// Serialize writes ix to w in the canonical "TSCH" format (spec.md §6):
// magic, version, LEB128 document count, then per document a
// length-prefixed title/url/meta followed by the filter's own tag+payload.
func Serialize(ix *Index, w io.Writer) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return ioError(err)
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return ioError(err)
	}
	if err := wire.WriteUvarint(w, uint64(len(ix.entries))); err != nil {
		return ioError(err)
	}
	for _, e := range ix.entries {
		if err := wire.WriteString(w, e.Post.Title); err != nil {
			return ioError(err)
		}
		if err := wire.WriteString(w, e.Post.URL); err != nil {
			return ioError(err)
		}
		if err := wire.WriteString(w, e.Post.Meta); err != nil {
			return ioError(err)
		}
		if err := e.Filter.Encode(w); err != nil {
			return ioError(err)
		}
	}
	return nil
}

// Deserialize reads an Index previously written by Serialize. It verifies
// magic and version before reading further, and fails with a FatalError
// (Corrupt or UnsupportedVersion) rather than producing a wrong-answer
// Index on malformed input (spec.md §4.3).
func Deserialize(r io.Reader) (*Index, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(br, magicBuf); err != nil {
		return nil, corrupt("truncated magic bytes")
	}
	if string(magicBuf) != magic {
		return nil, corrupt("bad magic bytes")
	}

	versionByte, err := br.ReadByte()
	if err != nil {
		return nil, corrupt("truncated version byte")
	}
	if versionByte != version {
		return nil, unsupportedVersion(versionByte)
	}

	count, err := wire.ReadUvarint(br)
	if err != nil {
		return nil, corrupt("bad document count")
	}
	if count > maxDocuments {
		return nil, corrupt("document count exceeds maximum")
	}

	// Cap the initial capacity well below maxDocuments: count comes straight
	// off the wire, so a truncated file claiming a huge count would otherwise
	// force a large allocation before a single entry is actually read.
	const initialCapacity = 1024
	capacity := count
	if capacity > initialCapacity {
		capacity = initialCapacity
	}
	entries := make([]Entry, 0, capacity)
	for i := uint64(0); i < count; i++ {
		title, err := wire.ReadString(br, maxFieldLen)
		if err != nil {
			return nil, corrupt("truncated title")
		}
		url, err := wire.ReadString(br, maxFieldLen)
		if err != nil {
			return nil, corrupt("truncated url")
		}
		meta, err := wire.ReadString(br, maxFieldLen)
		if err != nil {
			return nil, corrupt("truncated meta")
		}
		f, err := filter.Decode(br)
		if err != nil {
			return nil, corrupt("truncated or invalid filter: " + err.Error())
		}
		entries = append(entries, Entry{
			Post:   types.PostId{Title: title, URL: url, Meta: meta},
			Filter: f,
		})
	}

	return &Index{entries: entries}, nil
}
