// Package bloom provides URL set membership backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact string set with a Bloom filter in front of it.
//
// The filter only short-circuits lookups of URLs that were never added,
// which is most of them during a crawl. Membership itself is decided by the
// exact set, so answers are the same as a plain map's and a false positive
// never reports an unseen URL as present.
// Set is not safe for concurrent use.
type Set struct {
	f     *bloom.BloomFilter
	items map[string]struct{}
}

// NewSet creates a Set whose filter is sized for n expected items
// with the given false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		f:     bloom.NewWithEstimates(n, fpRate),
		items: make(map[string]struct{}),
	}
}

// Add adds item to the set. It returns false if item was already present.
func (s *Set) Add(item string) bool {
	if s.Contains(item) {
		return false
	}
	s.f.AddString(item)
	s.items[item] = struct{}{}
	return true
}

// Contains reports whether item is in the set.
func (s *Set) Contains(item string) bool {
	if !s.f.TestString(item) {
		return false
	}
	_, ok := s.items[item]
	return ok
}

// Len returns the number of items in the set.
func (s *Set) Len() int {
	return len(s.items)
}
