package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hupe1980/elut/quantization"
)

// Append writes every entry of batch to the bucket of its bin.
//
// The whole batch is validated before any byte is written: entries with a
// bin outside the grid or an out-of-range direction code are rejected, use
// quantization.SelectValid to drop them first. Records of one bucket keep
// their batch order and are committed with a single write. If a write
// fails the bucket is cut back to its previous length, so no partial record
// ever survives. Buckets committed before the failure keep their records.
func (s *Store) Append(ctx context.Context, batch []quantization.Compressed) error {
	if len(batch) == 0 {
		return nil
	}

	buffers := make(map[uint32][]byte)
	for i, c := range batch {
		if !c.CX.Valid() || !c.CY.Valid() {
			return fmt.Errorf("%w: entry %d has codes %s, %s", ErrInvalidDirection, i, c.CX, c.CY)
		}
		id, ok := s.index.CoordToID(c.Bin)
		if !ok {
			return fmt.Errorf("%w: entry %d at %s", ErrInvalidBin, i, c.Bin)
		}
		buffers[id] = c.Record.AppendTo(buffers[id])
	}

	ids := make([]uint32, 0, len(buffers))
	for id := range buffers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.appendBucket(id, buffers[id]); err != nil {
			return err
		}
	}

	s.logger.Debug("appended", "records", len(batch), "buckets", len(ids))
	return nil
}

// AppendRaw appends encoded records to bucket id. data must hold a whole
// number of records.
func (s *Store) AppendRaw(ctx context.Context, id uint32, data []byte) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if len(data)%quantization.RecordSize != 0 {
		return fmt.Errorf("bucket %d: %w: %d bytes", id, quantization.ErrRecordSize, len(data))
	}
	if len(data) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendBucket(id, data)
}

func (s *Store) appendBucket(id uint32, data []byte) error {
	name := s.bucketPath(id)

	prev, existed, err := s.bucketSize(id)
	if err != nil {
		return err
	}
	if prev%quantization.RecordSize != 0 {
		return &CorruptBucketError{ID: id, Path: name, Size: prev}
	}

	f, err := s.opts.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append bucket %d: %w", id, err)
	}

	_, werr := f.Write(data)
	if werr == nil && s.opts.syncWrites {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		return nil
	}

	err = fmt.Errorf("append bucket %d: %w", id, werr)
	if rerr := s.rollback(name, prev, existed); rerr != nil {
		s.logger.Error("rollback failed, bucket may hold a partial record", "bucket", id, "error", rerr)
		return errors.Join(err, fmt.Errorf("rollback bucket %d: %w", id, rerr))
	}
	s.logger.Warn("append rolled back", "bucket", id, "size", prev, "error", werr)
	return err
}

func (s *Store) rollback(name string, size int64, existed bool) error {
	if !existed {
		err := s.opts.fs.Remove(name)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return s.opts.fs.Truncate(name, size)
}
