//go:build windows

package tsearchstore

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

var (
	windowsMappingsMu sync.Mutex
	windowsMappings   = map[uintptr]syscall.Handle{}
)

func mmapReadOnly(f *os.File, size int64) ([]byte, error) {
	hi := uint32(uint64(size) >> 32)
	lo := uint32(uint64(size) & 0xffffffff)

	h, err := syscall.CreateFileMapping(syscall.Handle(f.Fd()), nil, syscall.PAGE_READONLY, hi, lo, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateFileMapping failed: %w", err)
	}

	addr, err := syscall.MapViewOfFile(h, syscall.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		syscall.CloseHandle(h)
		return nil, fmt.Errorf("MapViewOfFile failed: %w", err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	windowsMappingsMu.Lock()
	windowsMappings[addr] = h
	windowsMappingsMu.Unlock()
	return data, nil
}

func munmap(data []byte) error {
	if data == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	err := syscall.UnmapViewOfFile(addr)
	windowsMappingsMu.Lock()
	if h, ok := windowsMappings[addr]; ok {
		syscall.CloseHandle(h)
		delete(windowsMappings, addr)
	}
	windowsMappingsMu.Unlock()
	return err
}
