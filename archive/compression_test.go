package archive

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressBlock_RoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 0, 0}, 4096)
	random := make([]byte, 4096)
	rand.New(rand.NewSource(7)).Read(random)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, random, {}} {
				block, err := compressBlock(data, c)
				require.NoError(t, err)
				require.GreaterOrEqual(t, len(block), blockHeaderSize)
				assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(block[0:]))

				out, err := decompressBlock(block, c)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(out))
				assert.True(t, bytes.Equal(data, out))
			}
		})
	}
}

func TestCompressBlock_StoresIncompressibleRaw(t *testing.T) {
	random := make([]byte, 4096)
	rand.New(rand.NewSource(7)).Read(random)

	block, err := compressBlock(random, CompressionZSTD)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(block[4:]))
	assert.Len(t, block, blockHeaderSize+len(random))

	block, err = compressBlock(bytes.Repeat([]byte{0}, 4096), CompressionLZ4)
	require.NoError(t, err)
	assert.NotZero(t, binary.LittleEndian.Uint32(block[4:]))
	assert.Less(t, len(block), 4096)
}

func TestDecompressBlock_Corrupt(t *testing.T) {
	_, err := decompressBlock([]byte{1, 2, 3}, CompressionZSTD)
	assert.ErrorIs(t, err, ErrCorruptBlock)

	block, err := compressBlock(bytes.Repeat([]byte{9}, 1024), CompressionZSTD)
	require.NoError(t, err)
	_, err = decompressBlock(block[:len(block)-1], CompressionZSTD)
	assert.ErrorIs(t, err, ErrCorruptBlock)

	// A compressed payload cannot be decoded with CompressionNone.
	_, err = decompressBlock(block, CompressionNone)
	assert.ErrorIs(t, err, ErrCorruptBlock)

	_, err = compressBlock([]byte{1}, Compression(9))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestCompression_Text(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var got Compression
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, c, got)
	}

	assert.Equal(t, "bin", CompressionNone.Ext())
	assert.Equal(t, "lz4", CompressionLZ4.Ext())
	assert.Equal(t, "zst", CompressionZSTD.Ext())

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
	_, err = Compression(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownCompression)
	assert.Equal(t, "Compression(7)", Compression(7).String())
}
