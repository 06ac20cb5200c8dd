// Package tsearchstore holds the demo host's persistence: a BoltDB-backed
// repository of named, serialized indexes, and a read-only mmap file reader
// for zero-copy index loading. Both are adapted from the teacher's
// BoltMetadataStore and MmapVectorStore, repurposed from vector/chunk
// storage to TinySearch's own domain.
package tsearchstore

import (
	"bytes"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tinysearch/tinysearch/internal/tsearch/index"
)

var (
	bucketIndexes = []byte("indexes")
	bucketBuilds  = []byte("builds")
)

// IndexRepo persists named serialized indexes plus a log of the collected
// per-document build errors from each name's most recent build.
type IndexRepo struct {
	db *bbolt.DB
}

// OpenIndexRepo opens (creating if necessary) a BoltDB-backed IndexRepo at
// path.
func OpenIndexRepo(path string) (*IndexRepo, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketIndexes); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketBuilds); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &IndexRepo{db: db}, nil
}

// Put atomically replaces name's serialized index and build-error log in a
// single transaction (spec.md §9: "a new Index is built and atomically
// swapped; in-place mutation is intentionally unsupported").
func (r *IndexRepo) Put(name string, serialized []byte, buildLog string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketIndexes).Put([]byte(name), serialized); err != nil {
			return err
		}
		return tx.Bucket(bucketBuilds).Put([]byte(name), []byte(buildLog))
	})
}

// Get loads and deserializes the named index.
func (r *IndexRepo) Get(name string) (*index.Index, error) {
	var raw []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketIndexes).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("index not found: %s", name)
		}
		raw = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index.Deserialize(bytes.NewReader(raw))
}

// BuildLog returns the collected build-error text from name's most recent
// build, or the empty string if there were none (or name doesn't exist).
func (r *IndexRepo) BuildLog(name string) (string, error) {
	var log string
	err := r.db.View(func(tx *bbolt.Tx) error {
		log = string(tx.Bucket(bucketBuilds).Get([]byte(name)))
		return nil
	})
	return log, err
}

// Names lists every index currently stored.
func (r *IndexRepo) Names() ([]string, error) {
	var names []string
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIndexes).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Reset deletes the named index and its build log.
func (r *IndexRepo) Reset(name string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketIndexes).Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(bucketBuilds).Delete([]byte(name))
	})
}

// Close flushes and closes the underlying database.
func (r *IndexRepo) Close() error {
	return r.db.Close()
}
