package store

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/hupe1980/elut/codec"
	"github.com/hupe1980/elut/internal/fs"
)

type options struct {
	fs              fs.FileSystem
	logger          *slog.Logger
	codec           codec.Codec
	readConcurrency int
	fovRadius       float64
	manifest        bool
	syncWrites      bool
}

// Option configures a Store.
type Option func(*options)

// WithFileSystem sets the file system used for bucket files.
// Memory mapped reads are only used with the local file system.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCodec sets the codec of the store manifest.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithReadConcurrency bounds the number of buckets read in parallel.
// Values below one select GOMAXPROCS.
func WithReadConcurrency(n int) Option {
	return func(o *options) {
		o.readConcurrency = n
	}
}

// WithFieldOfViewRadius records the direction cosine radius in the manifest
// of a new store and checks it against the manifest of an existing one.
// The store itself decodes with whatever radius a read passes in.
func WithFieldOfViewRadius(r float64) Option {
	return func(o *options) {
		o.fovRadius = r
	}
}

// WithoutManifest disables writing and checking the store manifest.
// The binning then has to match by convention.
func WithoutManifest() Option {
	return func(o *options) {
		o.manifest = false
	}
}

// WithSyncWrites controls whether every bucket append is fsynced.
func WithSyncWrites(enabled bool) Option {
	return func(o *options) {
		o.syncWrites = enabled
	}
}

func applyOptions(opts []Option) options {
	o := options{
		fs:         fs.Default,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		codec:      codec.Default,
		manifest:   true,
		syncWrites: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.readConcurrency < 1 {
		o.readConcurrency = runtime.GOMAXPROCS(0)
	}
	return o
}
