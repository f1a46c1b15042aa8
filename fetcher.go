package dtdocs

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the HTML content of the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLFrontier manages a scrape queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	// Returns false if the URL has already been seen.
	Push(link DiscoveredLink) bool

	// Pop returns the next URL by priority.
	// Returns false if the frontier is empty.
	Pop() (DiscoveredLink, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DiscoveredLink is a URL found during scraping, with a priority used to
// order the frontier (reference index pages before individual pages).
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority
	Text     string
}

// LinkPriority orders frontier processing. Higher values are popped first.
type LinkPriority int

// Link priorities for frontier ordering.
const (
	PriorityFallback LinkPriority = iota
	PriorityPage
	PriorityIndex
)
