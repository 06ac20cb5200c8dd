package filter

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/tinysearch/tinysearch/internal/tsearch/types"
	"github.com/tinysearch/tinysearch/internal/tsearch/wire"
)

// defaultMaxAttempts bounds construction retries before a Builder reports
// ErrBuildFailed (spec.md §4.2: "re-seed and retry up to a bounded number
// of attempts before reporting a build error").
const defaultMaxAttempts = 100

// Xor8 is a 3-way XOR filter storing one byte of fingerprint per slot: the
// preferred filter per spec.md §4.2, at ~9.84 bits/element and a
// false-positive rate of about 1/256 (~0.4%), comfortably inside the ε≤4%
// acceptance bound and close to the ε≤1% design target.
type Xor8 struct {
	Seed         uint64
	BlockLength  uint32
	Fingerprints []uint8 // length 3*BlockLength, laid out as three blocks
}

// Builder constructs Xor8 filters, reseeding and retrying on peeling
// failure.
type Builder struct {
	MaxAttempts int
}

// NewBuilder returns a Builder configured with the default retry budget.
func NewBuilder() *Builder {
	return &Builder{MaxAttempts: defaultMaxAttempts}
}

// Build constructs a Filter containing exactly the tokens in the set.
func (b *Builder) Build(tokens types.TokenSet) (Filter, error) {
	hashes := make([]uint64, 0, len(tokens))
	for t := range tokens {
		hashes = append(hashes, baseHash(t))
	}

	attempts := b.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	blockLength := blockLengthFor(len(hashes))

	var seed uint64
	for attempt := 0; attempt < attempts; attempt++ {
		seed = rand.Uint64()
		fp, ok := tryBuild(hashes, seed, blockLength)
		if ok {
			return &Xor8{Seed: seed, BlockLength: blockLength, Fingerprints: fp}, nil
		}
	}
	return nil, ErrBuildFailed
}

// blockLengthFor picks a block length (one third of total slot capacity)
// with the ~23% slack over cardinality that XOR filter construction needs
// to peel successfully with high probability.
func blockLengthFor(size int) uint32 {
	capacity := uint32(32 + (size*123+99)/100) // 32 + ceil(1.23*size)
	capacity += (3 - capacity%3) % 3            // round up to a multiple of 3
	if capacity < 3 {
		capacity = 3
	}
	return capacity / 3
}

// baseHash hashes a token with xxhash, independent of any build seed. The
// seed is folded in later (see keyedHash) so a single failed construction
// attempt can reseed without rehashing every token from scratch.
func baseHash(t types.Token) uint64 {
	return xxhash.Sum64String(string(t))
}

// keyedHash mixes a token's base hash with the filter's seed through a
// murmur3-style finalizer, giving a well-avalanched 64-bit value that two
// different seeds will not collide on in the same way (spec.md §4.2's
// "stable keyed hashing scheme").
func keyedHash(base, seed uint64) uint64 {
	h := base ^ seed
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func fingerprint(h uint64) uint8 {
	return uint8(h)
}

func rotl64(x uint64, r uint) uint64 {
	return (x << (r & 63)) | (x >> ((64 - r) & 63))
}

// reduce maps a uniformly distributed 32-bit value into [0, n) without the
// bias of a modulo, using the standard multiply-shift trick.
func reduce(x uint32, n uint32) uint32 {
	return uint32((uint64(x) * uint64(n)) >> 32)
}

// slots returns the three candidate slots a keyed hash maps to, each in its
// own block of the fingerprint array.
func slots(h uint64, blockLength uint32) (h0, h1, h2 uint32) {
	r0 := uint32(h)
	r1 := uint32(rotl64(h, 21))
	r2 := uint32(rotl64(h, 42))
	h0 = reduce(r0, blockLength)
	h1 = reduce(r1, blockLength) + blockLength
	h2 = reduce(r2, blockLength) + 2*blockLength
	return h0, h1, h2
}

type peeledKey struct {
	slot uint32
	hash uint64
}

// tryBuild runs one peeling attempt at the given seed. It returns ok=false
// on a cycle (some keys never reach degree 1), signaling the caller to
// reseed and retry.
func tryBuild(baseHashes []uint64, seed uint64, blockLength uint32) ([]uint8, bool) {
	size := len(baseHashes)
	slotCount := 3 * blockLength

	xorSum := make([]uint64, slotCount)
	degree := make([]uint32, slotCount)

	keyedHashes := make([]uint64, size)
	for i, base := range baseHashes {
		h := keyedHash(base, seed)
		keyedHashes[i] = h
		h0, h1, h2 := slots(h, blockLength)
		xorSum[h0] ^= h
		xorSum[h1] ^= h
		xorSum[h2] ^= h
		degree[h0]++
		degree[h1]++
		degree[h2]++
	}

	queue := make([]uint32, 0, slotCount)
	for s := uint32(0); s < slotCount; s++ {
		if degree[s] == 1 {
			queue = append(queue, s)
		}
	}

	order := make([]peeledKey, 0, size)
	for len(queue) > 0 {
		slot := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if degree[slot] != 1 {
			continue
		}

		h := xorSum[slot]
		h0, h1, h2 := slots(h, blockLength)
		order = append(order, peeledKey{slot: slot, hash: h})
		degree[slot] = 0

		for _, other := range [3]uint32{h0, h1, h2} {
			if other == slot {
				continue
			}
			xorSum[other] ^= h
			degree[other]--
			if degree[other] == 1 {
				queue = append(queue, other)
			}
		}
	}

	if len(order) != size {
		return nil, false
	}

	fingerprints := make([]uint8, slotCount)
	for i := len(order) - 1; i >= 0; i-- {
		slot, h := order[i].slot, order[i].hash
		h0, h1, h2 := slots(h, blockLength)
		fingerprints[slot] = fingerprint(h) ^ fingerprints[h0] ^ fingerprints[h1] ^ fingerprints[h2]
	}
	return fingerprints, true
}

// Contains implements Filter.
func (f *Xor8) Contains(t types.Token) bool {
	if f.BlockLength == 0 {
		return false
	}
	h := keyedHash(baseHash(t), f.Seed)
	h0, h1, h2 := slots(h, f.BlockLength)
	return fingerprint(h) == f.Fingerprints[h0]^f.Fingerprints[h1]^f.Fingerprints[h2]
}

// Encode implements Filter. Payload: seed (8 bytes LE), then three
// length-prefixed fingerprint blocks (h0-block, h1-block, h2-block), each
// BlockLength bytes.
func (f *Xor8) Encode(w io.Writer) error {
	if _, err := w.Write([]byte{byte(TagXor8)}); err != nil {
		return err
	}
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], f.Seed)
	if _, err := w.Write(seedBuf[:]); err != nil {
		return err
	}

	bl := int(f.BlockLength)
	blocks := [3][]uint8{
		f.Fingerprints[0:bl],
		f.Fingerprints[bl : 2*bl],
		f.Fingerprints[2*bl : 3*bl],
	}
	for _, block := range blocks {
		if err := wire.WriteBytes(w, block); err != nil {
			return err
		}
	}
	return nil
}

// decodeXor8 reads an Xor8's payload (the tag byte has already been
// consumed by Decode).
func decodeXor8(r *bufio.Reader) (Filter, error) {
	var seedBuf [8]byte
	if _, err := io.ReadFull(r, seedBuf[:]); err != nil {
		return nil, err
	}
	seed := binary.LittleEndian.Uint64(seedBuf[:])

	var blocks [3][]uint8
	for i := range blocks {
		block, err := wire.ReadBytes(r, maxArrayLen)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}
	if len(blocks[0]) != len(blocks[1]) || len(blocks[1]) != len(blocks[2]) {
		return nil, errMismatchedBlocks
	}

	blockLength := uint32(len(blocks[0]))
	fingerprints := make([]uint8, 0, 3*blockLength)
	fingerprints = append(fingerprints, blocks[0]...)
	fingerprints = append(fingerprints, blocks[1]...)
	fingerprints = append(fingerprints, blocks[2]...)

	return &Xor8{Seed: seed, BlockLength: blockLength, Fingerprints: fingerprints}, nil
}
