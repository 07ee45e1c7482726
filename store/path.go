package store

import (
	"context"

	"github.com/hupe1980/elut/quantization"
)

// AppendPath appends batch to the store at path, creating it if needed.
func AppendPath(ctx context.Context, path string, b quantization.Binning, batch []quantization.Compressed, opts ...Option) error {
	s, err := Create(path, b, opts...)
	if err != nil {
		return err
	}
	return s.Append(ctx, batch)
}

// ReadPath reads the photons of all buckets overlapping the circle
// (cx, cy, r) from the store at path. A missing path is an error.
func ReadPath(ctx context.Context, path string, b quantization.Binning, cx, cy, r, fovRadius float64, opts ...Option) ([]quantization.Photon, error) {
	s, err := Open(path, b, opts...)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, cx, cy, r, fovRadius)
}
