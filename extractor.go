package dtdocs

// ExtractResult holds the structured content extracted from a reference
// HTML page.
type ExtractResult struct {
	// Title is the page title (e.g. "row().data()").
	Title string

	// DocType classifies the page, derived from its URL path.
	DocType DocType

	// Section is the breadcrumb-style section label (e.g. "Reference > API").
	Section string

	// Summary is the short description shown under the title.
	Summary string

	// ContentHTML is the main description as clean HTML, boilerplate
	// (nav, footer, sidebar) removed.
	ContentHTML string

	// Returns is the documented return type, if any.
	Returns string

	// Parameters are the rows of the page's parameter table, in order.
	Parameters []*Parameter

	// Examples are the page's code examples, in order.
	Examples []*Example

	// Related are the page's cross-reference links.
	Related []*RelatedItem
}

// Extractor extracts structured fields from reference HTML pages.
type Extractor interface {
	// Extract processes raw HTML from the given URL and returns the
	// structured content. The URL is used to classify the page.
	Extract(url, html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
