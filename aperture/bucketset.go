package aperture

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// BucketSet is a set of bucket ids backed by a roaring bitmap.
type BucketSet struct {
	rb *roaring.Bitmap
}

// NewBucketSet creates an empty set.
func NewBucketSet() *BucketSet {
	return &BucketSet{rb: roaring.New()}
}

// Add adds a bucket id.
func (s *BucketSet) Add(id uint32) {
	s.rb.Add(id)
}

// Contains reports whether id is in the set.
func (s *BucketSet) Contains(id uint32) bool {
	return s.rb.Contains(id)
}

// Len returns the number of ids in the set.
func (s *BucketSet) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set has no ids.
func (s *BucketSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// IDs returns the ids in ascending order.
func (s *BucketSet) IDs() []uint32 {
	return s.rb.ToArray()
}

// All iterates the ids in ascending order.
func (s *BucketSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Union returns a new set holding the ids of s and other.
func (s *BucketSet) Union(other *BucketSet) *BucketSet {
	return &BucketSet{rb: roaring.Or(s.rb, other.rb)}
}

// Intersect returns a new set holding the ids present in both sets.
func (s *BucketSet) Intersect(other *BucketSet) *BucketSet {
	return &BucketSet{rb: roaring.And(s.rb, other.rb)}
}
