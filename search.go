package dtdocs

import "context"

// DefaultSearchLimit is the number of results returned when a caller does
// not specify a limit.
const DefaultSearchLimit = 10

// SearchFilter narrows a full-text search.
//
// Query must already be safe for the FTS5 query grammar; callers are
// expected to pass raw user input through SanitizeQuery first.
type SearchFilter struct {
	Query   string   `json:"query"`
	DocType *DocType `json:"docType"`
	Section *string  `json:"section"`

	Limit int `json:"limit"`
}

// SearchResult is a single ranked full-text match.
type SearchResult struct {
	Doc     *Doc    `json:"doc"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet"`
}

// ExampleResult is a code example matched by an example search, joined with
// the doc it came from.
type ExampleResult struct {
	Example *Example `json:"example"`
	Doc     *Doc     `json:"doc"`
}

// SearchService answers queries against the full-text index.
type SearchService interface {
	// Search runs a ranked full-text search over doc titles, summaries and
	// content. An empty store yields an empty result set, not an error.
	Search(ctx context.Context, filter SearchFilter) ([]*SearchResult, error)

	// FindDetailsByName retrieves a doc with all derived fields by exact
	// title, falling back to a prefix match (e.g. "ajax" finds "ajax.data").
	// Returns ENOTFOUND if nothing matches.
	FindDetailsByName(ctx context.Context, name string) (*DocDetails, error)

	// SearchExamples runs a full-text search restricted to code examples,
	// optionally narrowed to a language.
	SearchExamples(ctx context.Context, query, language string, limit int) ([]*ExampleResult, error)

	// FindRelated returns items related to the named doc, optionally
	// narrowed to a category. Returns ENOTFOUND if the doc does not exist.
	FindRelated(ctx context.Context, name, category string) ([]*RelatedItem, error)
}
