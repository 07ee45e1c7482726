// Package mmap provides read-only memory-mapped file access.
//
// Bucket files are scanned front to back and decoded record by record;
// mapping them avoids copying whole buckets through kernel buffers.
//
// # Usage
//
//	m, err := mmap.Open("buckets/000042.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// not use a slice returned by Bytes after Close.
package mmap
