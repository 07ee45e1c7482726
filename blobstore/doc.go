// Package blobstore provides object storage for archived photon stores.
//
// A packed store is a set of immutable blobs: one compressed blob per
// populated bucket plus a manifest. BlobStore is the interface the archive
// package writes them through. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system with mmap reads and atomic writes
//   - MemoryStore: in-memory, for tests and staging
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)           // Open for reading
//	    Create(ctx, name) (WritableBlob, error) // Create for writing
//	    Put(ctx, name, data) error              // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
