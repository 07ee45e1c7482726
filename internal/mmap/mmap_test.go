package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmap_OpenReadClose(t *testing.T) {
	content := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	path := filepath.Join(t.TempDir(), "000007.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.NoError(t, m.Advise(AccessSequential))

	buf := make([]byte, 8)
	n, err := m.ReadAt(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, content[8:], buf)

	n, err = m.ReadAt(buf, 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	n, err = m.ReadAt(buf, 12)
	assert.Equal(t, 4, n)
	assert.Equal(t, io.EOF, err)

	_, err = m.ReadAt(buf, -1)
	assert.Equal(t, ErrInvalidOffset, err)
}

func TestMmap_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Bytes())
}

func TestMmap_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMmap_AfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcdefgh"), 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, m.Advise(AccessRandom))
}

func TestMmap_OpenRecords(t *testing.T) {
	dir := t.TempDir()
	whole := filepath.Join(dir, "000001.bin")
	require.NoError(t, os.WriteFile(whole, make([]byte, 24), 0o644))

	m, err := OpenRecords(whole, 8)
	require.NoError(t, err)
	assert.Equal(t, 24, m.Size())
	require.NoError(t, m.Close())

	torn := filepath.Join(dir, "000002.bin")
	require.NoError(t, os.WriteFile(torn, make([]byte, 27), 0o644))

	_, err = OpenRecords(torn, 8)
	var pre *PartialRecordError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, int64(27), pre.Size)
	assert.Equal(t, 8, pre.RecordSize)
	assert.Equal(t, torn, pre.Path)

	// Open does not care about record boundaries.
	m, err = Open(torn)
	require.NoError(t, err)
	assert.Equal(t, 27, m.Size())
	require.NoError(t, m.Close())

	_, err = OpenRecords(whole, 0)
	assert.Error(t, err)
}
