// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
//
// Tests can inject [FaultyFS] to simulate a bucket write that stops halfway:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("000042.bin", fs.Fault{FailAfterBytes: 12, PartialWrite: true})
//	// inject ffs into the photon store under test
//
// # Design Notes
//
// This package does NOT include context.Context parameters. Bucket appends
// are single buffered writes and are not interruptible at the syscall level.
// For remote storage use the blobstore package, which is context aware.
package fs
