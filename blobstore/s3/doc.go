// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	blobs, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/0042/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	err = archive.Pack(ctx, st, blobs)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large buckets
//   - CRC32C checksums on upload
//   - Automatic pagination for listing
package s3
