package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/elut/aperture"
	"github.com/hupe1980/elut/manifest"
	"github.com/hupe1980/elut/quantization"
)

// BucketExt is the file extension of bucket files.
const BucketExt = ".bin"

// Store is a directory of append-only bucket files for one binning.
//
// Reads may run concurrently with each other. Appends are serialized; a
// store is expected to have a single writing process.
type Store struct {
	path    string
	binning quantization.Binning
	index   *aperture.Index
	opts    options
	logger  *slog.Logger

	mu sync.Mutex // serializes appends
}

// Create creates the store directory if needed and records the binning in
// the store manifest. Creating an existing store with the same binning
// opens it for further appends.
//
// With WithFieldOfViewRadius a new store also records the radius, and an
// existing store must have been created with the same one.
func Create(path string, b quantization.Binning, opts ...Option) (*Store, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if err := o.fs.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	s := newStore(path, b, o)
	if !o.manifest {
		return s, nil
	}

	ms := manifest.NewStore(o.fs, path, o.codec)
	m, err := ms.Load()
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		m = manifest.New(b)
		m.FieldOfViewRadius = o.fovRadius
		if err := ms.Save(m); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("read manifest: %w", err)
	default:
		if err := checkManifest(m, b, o); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("store created", "bin_edge_width", b.BinEdgeWidth, "num_bins_radius", b.NumBinsRadius)
	return s, nil
}

// Open opens an existing store. A missing path yields an error satisfying
// errors.Is(err, fs.ErrNotExist). Stores without a manifest are accepted
// and b is trusted.
func Open(path string, b quantization.Binning, opts ...Option) (*Store, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	info, err := o.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open store %s: %w", path, ErrNotDirectory)
	}

	s := newStore(path, b, o)
	if !o.manifest {
		return s, nil
	}

	m, err := manifest.NewStore(o.fs, path, o.codec).Load()
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		s.logger.Warn("store has no manifest, binning is not verified", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read manifest: %w", err)
	default:
		if err := checkManifest(m, b, o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkManifest(m *manifest.Manifest, b quantization.Binning, o options) error {
	if err := m.Compatible(b); err != nil {
		return fmt.Errorf("%w: %w", ErrBinningMismatch, err)
	}
	if err := m.CompatibleFieldOfView(o.fovRadius); err != nil {
		return fmt.Errorf("%w: %w", ErrFieldOfViewMismatch, err)
	}
	return nil
}

func newStore(path string, b quantization.Binning, o options) *Store {
	return &Store{
		path:    path,
		binning: b,
		index:   aperture.NewIndex(b),
		opts:    o,
		logger:  o.logger.With("store", path),
	}
}

// Path returns the store directory.
func (s *Store) Path() string { return s.path }

// Binning returns the binning the store was opened with.
func (s *Store) Binning() quantization.Binning { return s.binning }

// Index returns the aperture index of the store's grid.
func (s *Store) Index() *aperture.Index { return s.index }

// BucketName returns the file name of bucket id.
func BucketName(id uint32) string {
	return fmt.Sprintf("%06d%s", id, BucketExt)
}

// ParseBucketName returns the bucket id encoded in a file name. Only the
// zero-padded form written by BucketName is accepted.
func ParseBucketName(name string) (uint32, bool) {
	stem, ok := strings.CutSuffix(name, BucketExt)
	if !ok || stem == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(stem, 10, 32)
	if err != nil || name != BucketName(uint32(id)) {
		return 0, false
	}
	return uint32(id), true
}

func (s *Store) bucketPath(id uint32) string {
	return filepath.Join(s.path, BucketName(id))
}

func (s *Store) checkID(id uint32) error {
	if _, ok := s.index.IDToCoord(id); !ok {
		return fmt.Errorf("%w: %d (grid has %d buckets)", ErrInvalidBucketID, id, s.index.NumBins())
	}
	return nil
}

// Buckets returns the ids of all populated buckets in ascending order.
// Files that are not bucket files are ignored.
func (s *Store) Buckets() ([]uint32, error) {
	entries, err := s.opts.fs.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := ParseBucketName(e.Name())
		if !ok {
			continue
		}
		if s.checkID(id) != nil {
			s.logger.Warn("ignoring bucket outside the grid", "file", e.Name())
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// checkDir tells a bucket that was never written apart from a store
// directory that went away after Open.
func (s *Store) checkDir() error {
	info, err := s.opts.fs.Stat(s.path)
	if err != nil {
		return fmt.Errorf("store %s: %w", s.path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store %s: %w", s.path, ErrNotDirectory)
	}
	return nil
}

// bucketSize returns the byte length of a bucket and whether it exists.
func (s *Store) bucketSize(id uint32) (int64, bool, error) {
	info, err := s.opts.fs.Stat(s.bucketPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, s.checkDir()
	}
	if err != nil {
		return 0, false, err
	}
	return info.Size(), true, nil
}

// Count returns the number of records in bucket id. Missing buckets hold
// zero records.
func (s *Store) Count(id uint32) (int, error) {
	if err := s.checkID(id); err != nil {
		return 0, err
	}
	size, _, err := s.bucketSize(id)
	if err != nil {
		return 0, err
	}
	if size%quantization.RecordSize != 0 {
		return 0, &CorruptBucketError{ID: id, Path: s.bucketPath(id), Size: size}
	}
	return int(size / quantization.RecordSize), nil
}
