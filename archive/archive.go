package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/elut/blobstore"
	"github.com/hupe1980/elut/codec"
	"github.com/hupe1980/elut/internal/hash"
	"github.com/hupe1980/elut/quantization"
	"github.com/hupe1980/elut/resource"
	"github.com/hupe1980/elut/store"
)

const (
	// ManifestName is the blob name of the archive manifest.
	ManifestName = "manifest.json"
	// BucketPrefix is the blob name prefix of archived buckets.
	BucketPrefix = "buckets/"
	// CurrentVersion is the archive format version written by Pack.
	CurrentVersion = 1
)

var (
	// ErrChecksum is returned when an archived bucket does not match its recorded CRC32C.
	ErrChecksum = errors.New("archive checksum mismatch")
	// ErrUnsupportedVersion is returned for archives of an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported archive version")
)

// Manifest lists the buckets of one archive.
type Manifest struct {
	Version     int                  `json:"version"`
	Codec       string               `json:"codec"`
	Compression Compression          `json:"compression"`
	RecordSize  int                  `json:"record_size"`
	Binning     quantization.Binning `json:"binning"`
	Buckets     []Bucket             `json:"buckets"`
}

// Bucket describes one archived bucket. Records, Size and CRC32C refer to
// the raw record bytes, not to the compressed blob.
type Bucket struct {
	ID      uint32 `json:"id"`
	Records int    `json:"records"`
	Size    int64  `json:"size"`
	CRC32C  uint32 `json:"crc32c"`
}

// Records returns the total number of records in the archive.
func (m *Manifest) Records() int {
	n := 0
	for _, b := range m.Buckets {
		n += b.Records
	}
	return n
}

// BlobName returns the blob name of bucket id compressed with c.
func BlobName(id uint32, c Compression) string {
	return fmt.Sprintf("%s%06d.%s", BucketPrefix, id, c.Ext())
}

type options struct {
	compression Compression
	controller  *resource.Controller
	logger      *slog.Logger
	codec       codec.Codec
}

// Option configures Pack and Unpack.
type Option func(*options)

// WithCompression sets the bucket compression used by Pack. The default is ZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithController bounds the workers, memory and IO bandwidth of a transfer.
// Without a controller transfers run one worker per CPU and are not throttled.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
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

// WithCodec sets the codec of the archive manifest.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		compression: CompressionZSTD,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		codec:       codec.Default,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// transfer runs fn for every index in [0, n) under the controller's worker
// slots.
func (o *options) transfer(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if o.controller == nil {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := range n {
		if err := o.controller.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer o.controller.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Pack writes every bucket of src to dst and finishes with the manifest.
// A failed Pack leaves no manifest, so a partial archive cannot be unpacked.
func Pack(ctx context.Context, src *store.Store, dst blobstore.BlobStore, opts ...Option) (*Manifest, error) {
	o := applyOptions(opts)
	if o.compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(o.compression))
	}

	ids, err := src.Buckets()
	if err != nil {
		return nil, err
	}

	entries := make([]Bucket, len(ids))
	err = o.transfer(ctx, len(ids), func(ctx context.Context, i int) error {
		entry, err := packBucket(ctx, src, dst, ids[i], &o)
		if err != nil {
			return fmt.Errorf("pack bucket %d: %w", ids[i], err)
		}
		entries[i] = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Buckets that were created but never written hold no records.
	entries = slices.DeleteFunc(entries, func(b Bucket) bool { return b.Size == 0 })

	m := &Manifest{
		Version:     CurrentVersion,
		Codec:       o.codec.Name(),
		Compression: o.compression,
		RecordSize:  quantization.RecordSize,
		Binning:     src.Binning(),
		Buckets:     entries,
	}
	data, err := o.codec.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode archive manifest: %w", err)
	}
	if err := dst.Put(ctx, ManifestName, data); err != nil {
		return nil, fmt.Errorf("write archive manifest: %w", err)
	}

	o.logger.Info("packed store", "path", src.Path(), "buckets", len(m.Buckets), "records", m.Records(), "compression", o.compression.String())
	return m, nil
}

func packBucket(ctx context.Context, src *store.Store, dst blobstore.BlobStore, id uint32, o *options) (Bucket, error) {
	raw, err := src.BucketBytes(id)
	if err != nil {
		return Bucket{}, err
	}
	if len(raw) == 0 {
		return Bucket{ID: id}, nil
	}

	cost := int64(len(raw))
	if err := o.controller.AcquireMemory(ctx, cost); err != nil {
		return Bucket{}, err
	}
	defer o.controller.ReleaseMemory(cost)

	block, err := compressBlock(raw, o.compression)
	if err != nil {
		return Bucket{}, err
	}

	wb, err := dst.Create(ctx, BlobName(id, o.compression))
	if err != nil {
		return Bucket{}, err
	}
	if _, err := resource.NewRateLimitedWriter(ctx, wb, o.controller).Write(block); err != nil {
		_ = wb.Close()
		return Bucket{}, err
	}
	if err := wb.Sync(); err != nil {
		_ = wb.Close()
		return Bucket{}, err
	}
	if err := wb.Close(); err != nil {
		return Bucket{}, err
	}

	o.logger.Debug("packed bucket", "id", id, "raw", len(raw), "packed", len(block))
	return Bucket{
		ID:      id,
		Records: len(raw) / quantization.RecordSize,
		Size:    int64(len(raw)),
		CRC32C:  hash.CRC32C(raw),
	}, nil
}

// LoadManifest reads and checks the manifest of the archive in src.
func LoadManifest(ctx context.Context, src blobstore.BlobStore, opts ...Option) (*Manifest, error) {
	o := applyOptions(opts)
	return loadManifest(ctx, src, &o)
}

func loadManifest(ctx context.Context, src blobstore.BlobStore, o *options) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, src, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("read archive manifest: %w", err)
	}
	var m Manifest
	if err := o.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode archive manifest: %w", err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	if m.RecordSize != quantization.RecordSize {
		return nil, fmt.Errorf("%w: archive record size %d, this build reads %d", store.ErrCorruptBucket, m.RecordSize, quantization.RecordSize)
	}
	return &m, nil
}

// Unpack appends every bucket of the archive in src to dst. All bucket blobs
// are fetched and verified before the first append, so a damaged archive
// leaves dst untouched. Unpacking several archives into one store merges them.
func Unpack(ctx context.Context, src blobstore.BlobStore, dst *store.Store, opts ...Option) (*Manifest, error) {
	o := applyOptions(opts)

	m, err := loadManifest(ctx, src, &o)
	if err != nil {
		return nil, err
	}
	if m.Binning != dst.Binning() {
		return nil, fmt.Errorf("%w: archive binning %+v, store binning %+v", store.ErrBinningMismatch, m.Binning, dst.Binning())
	}

	buckets := slices.Clone(m.Buckets)
	slices.SortFunc(buckets, func(a, b Bucket) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	raw := make([][]byte, len(buckets))
	err = o.transfer(ctx, len(buckets), func(ctx context.Context, i int) error {
		data, err := fetchBucket(ctx, src, buckets[i], m.Compression, &o)
		if err != nil {
			return fmt.Errorf("unpack bucket %d: %w", buckets[i].ID, err)
		}
		raw[i] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, b := range buckets {
		if err := dst.AppendRaw(ctx, b.ID, raw[i]); err != nil {
			return nil, fmt.Errorf("unpack bucket %d: %w", b.ID, err)
		}
		raw[i] = nil
	}

	o.logger.Info("unpacked archive", "path", dst.Path(), "buckets", len(buckets), "records", m.Records())
	return m, nil
}

func fetchBucket(ctx context.Context, src blobstore.BlobStore, b Bucket, c Compression, o *options) ([]byte, error) {
	blob, err := src.Open(ctx, BlobName(b.ID, c))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	size := blob.Size()
	if size < blockHeaderSize {
		return nil, fmt.Errorf("%w: blob of %d bytes", ErrCorruptBlock, size)
	}

	// The budget covers the blob and the decoded bucket while both are alive.
	cost := size + b.Size
	if err := o.controller.AcquireMemory(ctx, cost); err != nil {
		return nil, err
	}
	defer o.controller.ReleaseMemory(cost)

	rc, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	block, err := io.ReadAll(resource.NewRateLimitedReader(ctx, rc, o.controller))
	_ = rc.Close()
	if err != nil {
		return nil, err
	}

	data, err := decompressBlock(block, c)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != b.Size {
		return nil, fmt.Errorf("%w: bucket holds %d bytes, manifest records %d", ErrChecksum, len(data), b.Size)
	}
	if sum := hash.CRC32C(data); sum != b.CRC32C {
		return nil, fmt.Errorf("%w: crc32c %08x, manifest records %08x", ErrChecksum, sum, b.CRC32C)
	}
	return data, nil
}

// Inspect is a convenience over LoadManifest that reports the archive's
// bucket ids in ascending order.
func Inspect(ctx context.Context, src blobstore.BlobStore, opts ...Option) ([]uint32, error) {
	m, err := LoadManifest(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, len(m.Buckets))
	for i, b := range m.Buckets {
		ids[i] = b.ID
	}
	slices.Sort(ids)
	return ids, nil
}
