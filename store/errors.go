package store

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptBucket is returned when a bucket file is not a whole number of records.
	ErrCorruptBucket = errors.New("corrupt bucket")
	// ErrInvalidBin is returned when an entry refers to a bin outside the grid.
	ErrInvalidBin = errors.New("bin outside aperture grid")
	// ErrInvalidDirection is returned when an entry carries an out-of-range direction code.
	ErrInvalidDirection = errors.New("direction code out of range")
	// ErrInvalidBucketID is returned for bucket ids beyond the grid.
	ErrInvalidBucketID = errors.New("invalid bucket id")
	// ErrBinningMismatch is returned when a store was written with another binning.
	ErrBinningMismatch = errors.New("binning mismatch")
	// ErrFieldOfViewMismatch is returned when a store was written with another field-of-view radius.
	ErrFieldOfViewMismatch = errors.New("field of view mismatch")
	// ErrNotDirectory is returned when the store path is not a directory.
	ErrNotDirectory = errors.New("store path is not a directory")
)

// CorruptBucketError describes a bucket whose length is not a multiple of
// the record size. It unwraps to ErrCorruptBucket.
type CorruptBucketError struct {
	ID   uint32
	Path string
	Size int64
}

func (e *CorruptBucketError) Error() string {
	return fmt.Sprintf("corrupt bucket %d (%s): %d bytes leaves a partial record", e.ID, e.Path, e.Size)
}

func (e *CorruptBucketError) Unwrap() error { return ErrCorruptBucket }
