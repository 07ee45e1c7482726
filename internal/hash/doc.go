// Package hash provides CRC32-Castagnoli (CRC32C) checksums.
//
// Archived buckets carry the CRC32C of their raw record bytes so that an
// unpacked store can be checked against what was packed, and S3 uploads send
// the same checksum for server-side validation.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
