package mmap

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Mapping is a read-only view of a file. The mapped bytes belong to the
// Mapping and are released by Close.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	unmap  func([]byte) error
}

// PartialRecordError is returned by OpenRecords for a file that ends in
// the middle of a record.
type PartialRecordError struct {
	Path       string
	Size       int64
	RecordSize int
}

func (e *PartialRecordError) Error() string {
	return fmt.Sprintf("mmap: %s: %d bytes is not a multiple of the %d byte record", e.Path, e.Size, e.RecordSize)
}

// Open maps the file at path. Empty files map to an empty Mapping.
func Open(path string) (*Mapping, error) {
	return open(path, 1)
}

// OpenRecords maps a file made of fixed-size records. A file with a
// trailing partial record is not mapped; the error is a *PartialRecordError.
func OpenRecords(path string, recordSize int) (*Mapping, error) {
	if recordSize < 1 {
		return nil, fmt.Errorf("mmap: record size %d", recordSize)
	}
	return open(path, recordSize)
}

func open(path string, recordSize int) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size%int64(recordSize) != 0 {
		return nil, &PartialRecordError{Path: path, Size: size, RecordSize: recordSize}
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, size: int(size), unmap: unmap}, nil
}

// Close unmaps the file. Calling Close twice is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the mapped contents, or nil after Close. The slice must
// not be used once the Mapping is closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the length of the mapped file.
func (m *Mapping) Size() int {
	return m.size
}

// Advise passes an access hint to the kernel.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
