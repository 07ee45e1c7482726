package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elut/blobstore"
)

func TestStore_Open(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	t.Run("NotFound", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "prefix/foo"
		})).Return(nil, &types.NotFound{}).Once()

		_, err := store.Open(context.Background(), "foo")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("NoSuchKeyAPIError", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Key == "prefix/gone"
		})).Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey"}).Once()

		_, err := store.Open(context.Background(), "gone")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("OtherError", func(t *testing.T) {
		boom := errors.New("boom")
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Key == "prefix/err"
		})).Return(nil, boom).Once()

		_, err := store.Open(context.Background(), "err")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "prefix/bar"
		})).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(100),
		}, nil).Once()

		blob, err := store.Open(context.Background(), "bar")
		require.NoError(t, err)
		assert.Equal(t, int64(100), blob.Size())
	})

	mockClient.AssertExpectations(t)
}

func TestStore_Delete(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	mockClient.On("DeleteObject", mock.Anything, mock.MatchedBy(func(input *s3.DeleteObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == "prefix/del"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	mockClient.On("DeleteObject", mock.Anything, mock.MatchedBy(func(input *s3.DeleteObjectInput) bool {
		return *input.Key == "prefix/missing"
	})).Return(nil, &types.NoSuchKey{}).Once()

	assert.NoError(t, store.Delete(context.Background(), "del"))
	assert.NoError(t, store.Delete(context.Background(), "missing"))
	mockClient.AssertExpectations(t)
}

func TestStore_List(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return *input.Bucket == "test-bucket" && *input.Prefix == "prefix/buckets/"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("prefix/buckets/000010.zst")},
			{Key: aws.String("prefix/buckets/000005.zst")},
		},
	}, nil).Once()

	keys, err := store.List(context.Background(), "buckets/")
	require.NoError(t, err)
	assert.Equal(t, []string{"buckets/000005.zst", "buckets/000010.zst"}, keys)
}

func TestStore_List_Pagination(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	// Page 1
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return input.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token"),
		Contents:              []types.Object{{Key: aws.String("prefix/1")}},
	}, nil).Once()

	// Page 2
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return input.ContinuationToken != nil && *input.ContinuationToken == "token"
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
		Contents:    []types.Object{{Key: aws.String("prefix/2")}},
	}, nil).Once()

	keys, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, keys)
}

func TestBlob_ReadAt(t *testing.T) {
	mockClient := new(MockS3Client)
	blob := &s3Blob{
		client: mockClient,
		bucket: "b",
		key:    "k",
		size:   10,
	}

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Bucket == "b" && *input.Key == "k" && *input.Range == "bytes=0-4"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("hello")),
	}, nil).Once()

	buf := make([]byte, 5)
	n, err := blob.ReadAt(context.Background(), buf, 0)
	assert.Equal(t, 5, n)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	// Reads are clipped to the blob and report io.EOF.
	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Range == "bytes=8-9"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("ld")),
	}, nil).Once()

	n, err = blob.ReadAt(context.Background(), buf, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "ld", string(buf[:n]))

	_, err = blob.ReadAt(context.Background(), buf, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBlob_ReadRange(t *testing.T) {
	mockClient := new(MockS3Client)
	blob := &s3Blob{
		client: mockClient,
		bucket: "b",
		key:    "k",
		size:   10,
	}

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Bucket == "b" && *input.Key == "k" && *input.Range == "bytes=2-6"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("llo W")),
	}, nil).Once()

	r, err := blob.ReadRange(context.Background(), 2, 5)
	require.NoError(t, err)
	defer r.Close()

	buf, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "llo W", string(buf))

	_, err = blob.ReadRange(context.Background(), 10, 1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStore_Put(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Key == "prefix/manifest.json" &&
			aws.ToInt64(input.ContentLength) == 9 &&
			aws.ToString(input.ChecksumCRC32C) == "4waSgw=="
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "manifest.json", []byte("123456789")))
	mockClient.AssertExpectations(t)
}

func TestStore_Create(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	var uploaded string
	// The uploader sends bodies smaller than one part with a single PutObject.
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == "prefix/new"
	})).Run(func(args mock.Arguments) {
		input := args.Get(1).(*s3.PutObjectInput)
		data, _ := io.ReadAll(input.Body)
		uploaded = string(data)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	wb, err := store.Create(context.Background(), "new")
	require.NoError(t, err)

	_, err = wb.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, wb.Sync())
	require.NoError(t, wb.Close())
	assert.Equal(t, "content", uploaded)

	_, err = wb.Write([]byte("late"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestStore_Key(t *testing.T) {
	assert.Equal(t, "runs/7/x", NewStore(nil, "b", "/runs/7/").key("x"))
	assert.Equal(t, "x", NewStore(nil, "b", "").key("x"))
}
