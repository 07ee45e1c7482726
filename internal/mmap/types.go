package mmap

import "errors"

// AccessPattern is a hint about how a mapping will be read.
type AccessPattern int

const (
	// AccessDefault gives no advice.
	AccessDefault AccessPattern = iota
	// AccessSequential suits a front-to-back scan of a bucket.
	AccessSequential
	// AccessRandom suits scattered reads such as blob ranges.
	AccessRandom
	// AccessWillNeed asks for read-ahead of the whole mapping.
	AccessWillNeed
	// AccessDontNeed lets the kernel drop the cached pages.
	AccessDontNeed
)

var (
	// ErrClosed is returned when a closed mapping is accessed.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidOffset is returned by ReadAt for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
