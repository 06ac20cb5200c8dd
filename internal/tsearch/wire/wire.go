// Package wire provides the small binary-framing primitives shared by the
// filter and index packages: LEB128 (via encoding/binary's Uvarint, which is
// LEB128-compatible) length-prefixed integers and byte slices, matching the
// manual little-endian framing style the teacher's mmap store uses for its
// own header.
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// WriteUvarint writes n as a LEB128 varint.
func WriteUvarint(w io.Writer, n uint64) error {
	var buf [binary.MaxVarintLen64]byte
	sz := binary.PutUvarint(buf[:], n)
	_, err := w.Write(buf[:sz])
	return err
}

// ReadUvarint reads a LEB128 varint.
func ReadUvarint(r *bufio.Reader) (uint64, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("read varint: %w", err)
	}
	return n, nil
}

// WriteBytes writes a LEB128-length-prefixed byte slice.
func WriteBytes(w io.Writer, b []byte) error {
	if err := WriteUvarint(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadBytes reads a LEB128-length-prefixed byte slice, bounded by maxLen to
// guard against corrupt length fields forcing huge allocations. The bound
// check alone isn't enough against a truncated stream claiming a length
// near maxLen, so the read grows its buffer incrementally via a
// length-limited io.ReadAll rather than allocating the full claimed length
// upfront: a truncated file hits EOF (and fails) well before maxLen bytes
// are ever allocated.
func ReadBytes(r *bufio.Reader, maxLen uint64) ([]byte, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > maxLen {
		return nil, fmt.Errorf("length %d exceeds maximum %d", n, maxLen)
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("read bytes: %w", err)
	}
	if uint64(len(buf)) != n {
		return nil, fmt.Errorf("read bytes: truncated: got %d want %d", len(buf), n)
	}
	return buf, nil
}

// WriteString writes a LEB128-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a LEB128-length-prefixed UTF-8 string.
func ReadString(r *bufio.Reader, maxLen uint64) (string, error) {
	b, err := ReadBytes(r, maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
