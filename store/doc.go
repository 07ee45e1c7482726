// Package store implements the photon store: a directory holding one
// append-only file per populated aperture bucket.
//
// Layout:
//
//	<path>/
//	  elut.manifest   format version, record size and binning (optional)
//	  000005.bin      records of bucket 5
//	  000006.bin
//
// A bucket file is a flat sequence of fixed-width records without header or
// count. The owning bin of a record is the bucket it is stored in, so reads
// always decode against the bucket coordinate. A file whose length is not a
// multiple of the record size is corrupt and fails every read that touches
// it.
//
// Writes are append only. Each Append groups records by bucket and commits
// every bucket with one write; a failed write is cut back to the previous
// length. Reads map bucket files into memory and decode them in parallel.
package store
