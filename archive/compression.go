package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec of archived bucket blobs.
type Compression uint8

const (
	// CompressionNone stores bucket bytes as they are.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, the default).
	CompressionZSTD Compression = 2
)

// ErrUnknownCompression is returned for compression names or ids this build does not know.
var ErrUnknownCompression = errors.New("unknown compression")

// ErrCorruptBlock is returned when a blob cannot be decoded.
var ErrCorruptBlock = errors.New("corrupt archive block")

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Ext returns the blob file extension of c.
func (c Compression) Ext() string {
	switch c {
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zst"
	default:
		return "bin"
	}
}

// ParseCompression is the inverse of Compression.String.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	if c > CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(text []byte) error {
	v, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means the data is stored uncompressed.
const blockHeaderSize = 8

// compressBlock encodes data as one block. Data that does not shrink below
// 90% is stored uncompressed.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	if uint64(len(data)) > 1<<32-1 {
		return nil, fmt.Errorf("block of %d bytes exceeds 4 GiB", len(data))
	}

	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	payload := compressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		payload, compressed = data, nil
	}

	out := make([]byte, blockHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], payload)
	return out, nil
}

// decompressBlock decodes a block written by compressBlock with codec c.
func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptBlock, len(block))
	}
	rawSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	payload := block[blockHeaderSize:]

	if compressedSize == 0 {
		if uint64(len(payload)) != uint64(rawSize) {
			return nil, fmt.Errorf("%w: stored block holds %d of %d bytes", ErrCorruptBlock, len(payload), rawSize)
		}
		return payload, nil
	}
	if uint64(len(payload)) != uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed block holds %d of %d bytes", ErrCorruptBlock, len(payload), compressedSize)
	}

	switch c {
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: lz4 produced %d of %d bytes", ErrCorruptBlock, n, rawSize)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		out, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if uint32(len(out)) != rawSize {
			return nil, fmt.Errorf("%w: zstd produced %d of %d bytes", ErrCorruptBlock, len(out), rawSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed block with codec %s", ErrCorruptBlock, c)
	}
}
