package tsearchstore

import (
	"fmt"
	"os"
)

// MappedFile is a read-only memory-mapped view of a serialized index file.
// It exists for the sandboxed, linear-memory query path spec.md §5 and §9
// describe: a host can map a ".tsch" file once and hand index.Deserialize a
// byte slice backed directly by the OS page cache, with no read(2) copy.
type MappedFile struct {
	file *os.File
	data []byte
}

// OpenMapped memory-maps path read-only.
func OpenMapped(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("cannot mmap empty file %s", path)
	}

	data, err := mmapReadOnly(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &MappedFile{file: f, data: data}, nil
}

// Bytes returns the mapped file's contents. The returned slice is only
// valid until Close.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

// Close unmaps and closes the underlying file.
func (m *MappedFile) Close() error {
	err := munmap(m.data)
	m.data = nil
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
