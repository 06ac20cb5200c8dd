// Package filter implements the approximate-membership structure each
// document's token set is compressed into: soundness on every inserted
// token, a bounded false-positive rate on tokens that were never inserted,
// and a canonical binary encoding that round-trips across build and query.
package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tinysearch/tinysearch/internal/tsearch/types"
)

// Tag identifies which concrete filter implementation a serialized payload
// holds, so a single format version can carry either one interoperably
// (spec.md §9, "filter choice polymorphism").
type Tag byte

const (
	TagXor8 Tag = 1
)

// Filter answers approximate set-membership queries for one document's
// token set. Implementations must be immutable after construction and must
// produce identical Contains results before and after a round trip through
// Encode/Decode.
type Filter interface {
	// Contains reports whether t was probably inserted. No false negatives
	// on tokens present at build time; a bounded false-positive rate on
	// tokens that were not.
	Contains(t types.Token) bool

	// Encode writes the filter's tag byte followed by its canonical,
	// self-delimiting payload.
	Encode(w io.Writer) error
}

// ErrBuildFailed is returned by a Builder when the underlying structure
// cannot accommodate a token set within its retry budget.
var ErrBuildFailed = errors.New("filter: build failed after exhausting retry budget")

// ErrUnsupportedTag is returned by Decode for an unrecognized tag byte.
var ErrUnsupportedTag = errors.New("filter: unsupported tag")

// maxArrayLen bounds a single decoded fingerprint array, guarding against a
// corrupt length field demanding an unreasonable allocation.
const maxArrayLen = 256 << 20

// errMismatchedBlocks is returned when a decoded Xor8's three fingerprint
// blocks don't all share the same length, which can only happen if the
// bytes are corrupt.
var errMismatchedBlocks = errors.New("filter: mismatched fingerprint block lengths")

// Decode reads a tag byte and dispatches to the matching implementation's
// decoder.
func Decode(r *bufio.Reader) (Filter, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("filter: read tag: %w", err)
	}
	switch Tag(tagByte) {
	case TagXor8:
		return decodeXor8(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTag, tagByte)
	}
}
