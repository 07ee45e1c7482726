package store

import (
	"context"
	"errors"
	"fmt"
)

// Histogram returns the record count of every bucket, indexed by bucket id.
func (s *Store) Histogram() ([]int, error) {
	ids, err := s.Buckets()
	if err != nil {
		return nil, err
	}
	counts := make([]int, s.index.NumBins())
	for _, id := range ids {
		n, err := s.Count(id)
		if err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, nil
}

// Verify checks the length of every bucket and returns all corrupt ones
// joined into one error.
func (s *Store) Verify(ctx context.Context) error {
	ids, err := s.Buckets()
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Count(id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.logger.Error("store verification failed", "corrupt", len(errs))
	}
	return errors.Join(errs...)
}

// Merge appends the buckets of every source to dst. Sources are merged in
// argument order and each bucket keeps the record order of its source, so
// merging per-job stores reproduces every job's append order. All stores
// must share one binning.
func Merge(ctx context.Context, dst *Store, srcs ...*Store) error {
	for _, src := range srcs {
		if src == dst || src.path == dst.path {
			return fmt.Errorf("merge %s into itself", src.path)
		}
		if src.binning != dst.binning {
			return fmt.Errorf("merge %s: %w: %+v into %+v", src.path, ErrBinningMismatch, src.binning, dst.binning)
		}
	}

	for _, src := range srcs {
		ids, err := src.Buckets()
		if err != nil {
			return fmt.Errorf("merge %s: %w", src.path, err)
		}
		for _, id := range ids {
			err := src.withBucket(id, func(data []byte) error {
				return dst.AppendRaw(ctx, id, data)
			})
			if err != nil {
				return fmt.Errorf("merge %s: %w", src.path, err)
			}
		}
		dst.logger.Info("merged store", "source", src.path, "buckets", len(ids))
	}
	return nil
}
