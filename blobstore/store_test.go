package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("photons of bucket 000042, packed")

			w, err := store.Create(ctx, "buckets/000042.zst")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Sync())
			require.NoError(t, w.Close())

			blob, err := store.Open(ctx, "buckets/000042.zst")
			require.NoError(t, err)
			defer blob.Close()
			require.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 6)
			n, err = blob.ReadAt(ctx, buf, 18)
			require.NoError(t, err)
			assert.Equal(t, 6, n)
			assert.Equal(t, "000042", string(buf))

			rc, err := blob.ReadRange(ctx, 0, 7)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "photons", string(got))

			require.NoError(t, store.Put(ctx, "manifest.json", []byte(`{"version":1}`)))
			require.NoError(t, store.Put(ctx, "buckets/000007.zst", []byte("seven")))

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"buckets/000007.zst", "buckets/000042.zst", "manifest.json"}, names)

			names, err = store.List(ctx, "buckets/")
			require.NoError(t, err)
			assert.Equal(t, []string{"buckets/000007.zst", "buckets/000042.zst"}, names)

			all, err := ReadAll(ctx, store, "manifest.json")
			require.NoError(t, err)
			assert.Equal(t, `{"version":1}`, string(all))

			require.NoError(t, store.Delete(ctx, "buckets/000007.zst"))
			require.NoError(t, store.Delete(ctx, "buckets/000007.zst"))
			_, err = store.Open(ctx, "buckets/000007.zst")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = ReadAll(ctx, store, "buckets/000007.zst")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStore_ReadRangeBoundaries(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("0123456789")
			require.NoError(t, store.Put(ctx, "boundary.bin", data))

			blob, err := store.Open(ctx, "boundary.bin")
			require.NoError(t, err)
			defer blob.Close()

			r, err := blob.ReadRange(ctx, 0, 10)
			require.NoError(t, err)
			content, _ := io.ReadAll(r)
			r.Close()
			assert.True(t, bytes.Equal(data, content))

			// Ranges are clipped to the blob.
			r, err = blob.ReadRange(ctx, 8, 5)
			require.NoError(t, err)
			content, err = io.ReadAll(r)
			require.NoError(t, err)
			r.Close()
			assert.Equal(t, "89", string(content))

			_, err = blob.ReadRange(ctx, 20, 5)
			assert.ErrorIs(t, err, io.EOF)

			buf := make([]byte, 4)
			n, err := blob.ReadAt(ctx, buf, 8)
			assert.Equal(t, 2, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestLocalStore_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	w, err := store.Create(ctx, "buckets/000001.lz4")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Not visible before Close.
	_, err = store.Open(ctx, "buckets/000001.lz4")
	assert.ErrorIs(t, err, ErrNotFound)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	_, err = os.Stat(filepath.Join(root, "buckets", "000001.lz4"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "buckets", "000001.lz4.tmp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, store, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
