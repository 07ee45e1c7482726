package elut

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/elut/archive"
	"github.com/hupe1980/elut/manifest"
	"github.com/hupe1980/elut/quantization"
	"github.com/hupe1980/elut/store"
)

var (
	// ErrNotFound is returned when a store, bucket or archive does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when stored or archived data cannot be decoded.
	ErrCorrupt = errors.New("corrupt data")

	// ErrConfigMismatch is returned when a store or archive was written
	// with a different binning or field-of-view radius.
	ErrConfigMismatch = errors.New("configuration mismatch")

	// ErrInvalidConfig is returned for an unusable binning or field of view.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed is returned by operations on a closed Table.
	ErrClosed = errors.New("table closed")
)

// ErrCorruptBucket identifies the bucket that failed to decode.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrCorruptBucket struct {
	ID    uint32
	Size  int64
	cause error
}

func (e *ErrCorruptBucket) Error() string {
	return fmt.Sprintf("corrupt bucket %d: %d bytes is not a multiple of %d", e.ID, e.Size, quantization.RecordSize)
}

func (e *ErrCorruptBucket) Unwrap() []error { return []error{ErrCorrupt, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrClosed) {
		return err
	}

	var cb *store.CorruptBucketError
	if errors.As(err, &cb) {
		return &ErrCorruptBucket{ID: cb.ID, Size: cb.Size, cause: err}
	}
	if errors.Is(err, store.ErrCorruptBucket) ||
		errors.Is(err, archive.ErrChecksum) ||
		errors.Is(err, archive.ErrCorruptBlock) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, manifest.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, store.ErrBinningMismatch) || errors.Is(err, store.ErrFieldOfViewMismatch) {
		return fmt.Errorf("%w: %w", ErrConfigMismatch, err)
	}
	if errors.Is(err, quantization.ErrInvalidBinning) ||
		errors.Is(err, store.ErrNotDirectory) ||
		errors.Is(err, manifest.ErrUnsupportedVersion) ||
		errors.Is(err, archive.ErrUnsupportedVersion) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return err
}
