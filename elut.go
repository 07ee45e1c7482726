package elut

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/hupe1980/elut/archive"
	"github.com/hupe1980/elut/blobstore"
	"github.com/hupe1980/elut/quantization"
	"github.com/hupe1980/elut/store"
)

// Table is a photon look-up table: one store written with a fixed aperture
// binning and field-of-view radius.
//
// A Table is safe for concurrent use. Queries run in parallel with each
// other and with appends; appends are serialized.
type Table struct {
	store     *store.Store
	fovRadius float64
	metrics   MetricsCollector
	logger    *Logger
	closed    atomic.Bool
}

// Create creates the table directory at path, or reopens it for appends if
// it already holds a table with the same binning and field-of-view radius.
func Create(path string, b quantization.Binning, fovRadius float64, optFns ...Option) (*Table, error) {
	return newTable(path, b, fovRadius, store.Create, optFns)
}

// Open opens an existing table. Opening a missing path returns an error
// matching ErrNotFound; a table recorded with another binning or
// field-of-view radius returns ErrConfigMismatch.
func Open(path string, b quantization.Binning, fovRadius float64, optFns ...Option) (*Table, error) {
	return newTable(path, b, fovRadius, store.Open, optFns)
}

type openFunc func(path string, b quantization.Binning, opts ...store.Option) (*store.Store, error)

func newTable(path string, b quantization.Binning, fovRadius float64, open openFunc, optFns []Option) (*Table, error) {
	if !(fovRadius > 0) || math.IsInf(fovRadius, 0) {
		return nil, fmt.Errorf("%w: field of view radius must be positive and finite, got %v", ErrInvalidConfig, fovRadius)
	}
	o := applyOptions(optFns)
	logger := o.logger.WithPath(path).WithBinning(b)

	s, err := open(path, b, o.storeOptions(logger, fovRadius)...)
	if err != nil {
		return nil, translateError(err)
	}
	return &Table{
		store:     s,
		fovRadius: fovRadius,
		metrics:   o.metricsCollector,
		logger:    logger,
	}, nil
}

// Path returns the table directory.
func (t *Table) Path() string { return t.store.Path() }

// Binning returns the aperture binning of the table.
func (t *Table) Binning() quantization.Binning { return t.store.Binning() }

// FieldOfViewRadius returns the direction cosine radius of the table.
func (t *Table) FieldOfViewRadius() float64 { return t.fovRadius }

// Store returns the underlying photon store.
func (t *Table) Store() *store.Store { return t.store }

// Append quantizes photons and appends the representable ones. Photons
// outside the grid or the field of view are dropped and counted in the
// returned Overflow; they are never an error.
func (t *Table) Append(ctx context.Context, photons []quantization.Photon) (quantization.Overflow, error) {
	batch, valid := quantization.CompressPhotons(photons, t.Binning(), t.fovRadius)
	return t.append(ctx, batch, valid)
}

// AppendColumns is Append for column-oriented input.
func (t *Table) AppendColumns(ctx context.Context, xs, ys, cxs, cys []float64) (quantization.Overflow, error) {
	batch, valid, err := quantization.CompressColumns(xs, ys, cxs, cys, t.Binning(), t.fovRadius)
	if err != nil {
		return quantization.Overflow{}, err
	}
	return t.append(ctx, batch, valid)
}

func (t *Table) append(ctx context.Context, batch []quantization.Compressed, valid []bool) (overflow quantization.Overflow, err error) {
	start := time.Now()
	overflow = quantization.Tally(batch, t.Binning())
	defer func() {
		t.metrics.RecordAppend(len(batch), overflow.Rejected(len(batch)), time.Since(start), err)
		t.logger.LogAppend(ctx, len(batch), overflow, err)
	}()

	if t.closed.Load() {
		return overflow, ErrClosed
	}
	err = translateError(t.store.Append(ctx, quantization.SelectValid(batch, valid)))
	return overflow, err
}

// Query returns every photon of the buckets whose cells overlap the circle
// of radius r around (cx, cy). Photons come in ascending bucket id order and
// keep their append order within a bucket. The result is a superset of the
// photons inside the circle.
func (t *Table) Query(ctx context.Context, cx, cy, r float64) (photons []quantization.Photon, err error) {
	start := time.Now()
	set := t.store.Index().Overlapping(cx, cy, r)
	defer func() {
		t.metrics.RecordQuery(set.Len(), len(photons), time.Since(start), err)
		t.logger.LogQuery(ctx, cx, cy, r, set.Len(), len(photons), err)
	}()

	if t.closed.Load() {
		return nil, ErrClosed
	}
	photons, err = t.store.ReadBuckets(ctx, set, t.fovRadius)
	if err != nil {
		return nil, translateError(err)
	}
	return photons, nil
}

// Histogram returns the record count of every bucket, indexed by bucket id.
func (t *Table) Histogram() ([]int, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	h, err := t.store.Histogram()
	return h, translateError(err)
}

// Verify checks every bucket for corruption.
func (t *Table) Verify(ctx context.Context) error {
	return t.maintain(ctx, "verify", func() error {
		return t.store.Verify(ctx)
	})
}

// Merge appends the photons of every source table, in argument order.
// All tables must share the binning and field-of-view radius.
func (t *Table) Merge(ctx context.Context, srcs ...*Table) error {
	return t.maintain(ctx, "merge", func() error {
		stores := make([]*store.Store, len(srcs))
		for i, src := range srcs {
			if src.fovRadius != t.fovRadius {
				return fmt.Errorf("%w: merge %s: field of view radius %v into %v", ErrConfigMismatch, src.Path(), src.fovRadius, t.fovRadius)
			}
			stores[i] = src.store
		}
		return store.Merge(ctx, t.store, stores...)
	})
}

// Pack writes the table to a blob store as a compressed archive.
func (t *Table) Pack(ctx context.Context, dst blobstore.BlobStore, opts ...archive.Option) (m *archive.Manifest, err error) {
	err = t.maintain(ctx, "pack", func() error {
		m, err = archive.Pack(ctx, t.store, dst, t.archiveOptions(opts)...)
		return err
	})
	return m, err
}

// Unpack appends the photons of an archive to the table. The archive must
// have been packed from a table with the same binning.
func (t *Table) Unpack(ctx context.Context, src blobstore.BlobStore, opts ...archive.Option) (m *archive.Manifest, err error) {
	err = t.maintain(ctx, "unpack", func() error {
		m, err = archive.Unpack(ctx, src, t.store, t.archiveOptions(opts)...)
		return err
	})
	return m, err
}

func (t *Table) archiveOptions(opts []archive.Option) []archive.Option {
	return append([]archive.Option{archive.WithLogger(t.logger.Logger)}, opts...)
}

func (t *Table) maintain(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	var err error
	if t.closed.Load() {
		err = ErrClosed
	} else {
		err = translateError(fn())
	}
	t.metrics.RecordMaintenance(op, time.Since(start), err)
	t.logger.LogMaintenance(ctx, op, err)
	return err
}

// Close marks the table closed. Bucket files are opened per operation, so
// Close holds nothing to release; later calls return ErrClosed.
func (t *Table) Close() error {
	if t == nil {
		return nil
	}
	t.closed.Store(true)
	return nil
}
