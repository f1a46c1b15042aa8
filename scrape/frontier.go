package scrape

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/bloom"
)

var _ dtdocs.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier combining a priority queue with
// Bloom filter deduplication. Safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.VisitedSet
	queue *linkHeap
}

// NewFrontier creates a Frontier sized for n expected URLs with the
// given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewVisitedSet(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier. Returns false if the URL has
// already been seen. Fragments are stripped first, so URLs differing
// only by fragment are duplicates.
func (f *Frontier) Push(link dtdocs.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.seen.Visit(link.URL) {
		return false
	}

	heap.Push(f.queue, link)
	return true
}

// Pop returns the next link by priority, index pages before individual
// doc pages. The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (dtdocs.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return dtdocs.DiscoveredLink{}, false
	}
	link, _ := heap.Pop(f.queue).(dtdocs.DiscoveredLink)
	return link, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// linkHeap implements heap.Interface as a max-heap over link priority.
type linkHeap []dtdocs.DiscoveredLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	return h[i].Priority > h[j].Priority
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(dtdocs.DiscoveredLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
