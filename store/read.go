package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/elut/aperture"
	"github.com/hupe1980/elut/internal/fs"
	"github.com/hupe1980/elut/internal/mmap"
	"github.com/hupe1980/elut/quantization"
)

// Read returns every photon stored in a bucket whose cell overlaps the
// circle (cx, cy, r). The filter works at bucket granularity: photons of an
// overlapping cell are returned even when they lie outside the circle.
//
// Buckets are concatenated in ascending id order and each bucket keeps its
// append order. A corrupt bucket fails the whole read.
func (s *Store) Read(ctx context.Context, cx, cy, r, fovRadius float64) ([]quantization.Photon, error) {
	return s.ReadBuckets(ctx, s.index.Overlapping(cx, cy, r), fovRadius)
}

// ReadBuckets decodes the photons of the given buckets. Ids of buckets that
// were never written contribute nothing, but a store directory that has
// disappeared is an error satisfying errors.Is(err, fs.ErrNotExist).
func (s *Store) ReadBuckets(ctx context.Context, set *aperture.BucketSet, fovRadius float64) ([]quantization.Photon, error) {
	ids := set.IDs()
	parts := make([][]quantization.Photon, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.readConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			photons, err := s.decodeBucket(id, fovRadius)
			if err != nil {
				return err
			}
			parts[i] = photons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]quantization.Photon, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}

	s.logger.Debug("read", "buckets", len(ids), "photons", total)
	return out, nil
}

// ReadBucket returns the raw records of bucket id.
func (s *Store) ReadBucket(id uint32) ([]quantization.Record, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	var out []quantization.Record
	err := s.withBucket(id, func(data []byte) error {
		out = make([]quantization.Record, 0, len(data)/quantization.RecordSize)
		return quantization.ForEachRecord(data, func(rec quantization.Record) {
			out = append(out, rec)
		})
	})
	return out, err
}

// BucketBytes returns a copy of the encoded records of bucket id, or nil
// if the bucket was never written.
func (s *Store) BucketBytes(id uint32) ([]byte, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	var out []byte
	err := s.withBucket(id, func(data []byte) error {
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

func (s *Store) decodeBucket(id uint32, fovRadius float64) ([]quantization.Photon, error) {
	coord, ok := s.index.IDToCoord(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketID, id)
	}
	var out []quantization.Photon
	err := s.withBucket(id, func(data []byte) error {
		out = make([]quantization.Photon, 0, len(data)/quantization.RecordSize)
		return quantization.ForEachRecord(data, func(rec quantization.Record) {
			out = append(out, quantization.Decode(coord, rec, s.binning, fovRadius))
		})
	})
	return out, err
}

// withBucket calls fn with the contents of bucket id. fn is not called for
// buckets that were never written and must not retain data. Local stores are
// memory mapped.
func (s *Store) withBucket(id uint32, fn func(data []byte) error) error {
	name := s.bucketPath(id)

	var data []byte
	if _, local := s.opts.fs.(fs.LocalFS); local {
		m, err := mmap.OpenRecords(name, quantization.RecordSize)
		var partial *mmap.PartialRecordError
		switch {
		case errors.Is(err, os.ErrNotExist):
			return s.checkDir()
		case errors.As(err, &partial):
			return &CorruptBucketError{ID: id, Path: name, Size: partial.Size}
		case err != nil:
			return fmt.Errorf("map bucket %d: %w", id, err)
		}
		defer m.Close()
		_ = m.Advise(mmap.AccessSequential)
		data = m.Bytes()
	} else {
		var err error
		data, err = s.opts.fs.ReadFile(name)
		if errors.Is(err, os.ErrNotExist) {
			return s.checkDir()
		}
		if err != nil {
			return fmt.Errorf("read bucket %d: %w", id, err)
		}
	}

	if len(data)%quantization.RecordSize != 0 {
		return &CorruptBucketError{ID: id, Path: name, Size: int64(len(data))}
	}
	return fn(data)
}
