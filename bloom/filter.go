// Package bloom tracks visited URLs probabilistically so the scrape
// frontier can skip pages it has already enqueued without holding every
// URL string in memory.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Sizing defaults cover the full datatables.net documentation set
// (a few thousand pages) with generous headroom.
const (
	DefaultCapacity = 50000
	DefaultFPRate   = 0.001
)

// VisitedSet records which URLs the frontier has already seen.
// A false positive means a page may be skipped; a false negative
// never happens, so no page is ever scraped twice because of the set.
type VisitedSet struct {
	f *bloom.BloomFilter
}

// NewVisitedSet creates a set sized for n expected URLs with the given
// false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewDefaultVisitedSet creates a set sized for a full documentation scrape.
func NewDefaultVisitedSet() *VisitedSet {
	return NewVisitedSet(DefaultCapacity, DefaultFPRate)
}

// Visit marks the URL as seen and reports whether it had (probably)
// been seen before.
func (s *VisitedSet) Visit(url string) bool {
	return s.f.TestAndAddString(url)
}

// Seen reports whether the URL might have been visited.
func (s *VisitedSet) Seen(url string) bool {
	return s.f.TestString(url)
}

// EstimatedCount returns the approximate number of visited URLs.
func (s *VisitedSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
