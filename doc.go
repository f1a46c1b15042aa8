package dtdocs

import (
	"context"
	"time"
)

// DocType classifies a documentation page.
type DocType string

// DocType values mirror the datatables.net reference sections.
const (
	DocTypeAPI     DocType = "api"
	DocTypeOption  DocType = "option"
	DocTypeEvent   DocType = "event"
	DocTypeButton  DocType = "button"
	DocTypeManual  DocType = "manual"
	DocTypeExample DocType = "example"
)

// Doc represents a scraped documentation page.
type Doc struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	DocType     DocType   `json:"docType"`
	Section     string    `json:"section"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Returns     string    `json:"returns"`
	ContentHash string    `json:"contentHash"`
	Position    int       `json:"position"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Validate returns an error if the doc contains invalid fields.
func (d *Doc) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "doc URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "doc title required")
	}
	return nil
}

// Parameter is a single parameter extracted from a doc's parameter table.
type Parameter struct {
	DocID       string `json:"docId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Default     string `json:"default"`
	Position    int    `json:"position"`
}

// Example is a code example extracted from a doc.
type Example struct {
	DocID       string `json:"docId"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// RelatedItem is a cross-reference from one doc to another named item.
type RelatedItem struct {
	DocID    string `json:"docId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// Related item categories.
const (
	RelatedAPI    = "api"
	RelatedOption = "option"
	RelatedEvent  = "event"
	RelatedButton = "button"
)

// DocDetails bundles a doc with all of its derived structured fields.
type DocDetails struct {
	Doc        *Doc           `json:"doc"`
	Parameters []*Parameter   `json:"parameters"`
	Examples   []*Example     `json:"examples"`
	Related    []*RelatedItem `json:"related"`
}

// DocWriter writes docs to storage. Used by the scraper.
type DocWriter interface {
	CreateDoc(ctx context.Context, details *DocDetails) error
}

// DocService represents a service for managing docs and their derived fields.
type DocService interface {
	// CreateDoc creates a new doc along with its parameters, examples and
	// related items. Generates the doc ID, hash and timestamp.
	CreateDoc(ctx context.Context, details *DocDetails) error

	// FindDocByID retrieves a doc by ID.
	// Returns ENOTFOUND if the doc does not exist.
	FindDocByID(ctx context.Context, id string) (*Doc, error)

	// FindDocs retrieves docs matching the filter.
	FindDocs(ctx context.Context, filter DocFilter) ([]*Doc, error)

	// DeleteDocByURL removes a doc and its derived fields by source URL.
	// Deleting a URL that was never scraped is not an error.
	DeleteDocByURL(ctx context.Context, url string) error

	// CountDocs returns the number of stored docs per doc type.
	CountDocs(ctx context.Context) (map[DocType]int, error)
}

// DocFilter represents a filter for FindDocs.
type DocFilter struct {
	ID      *string  `json:"id"`
	URL     *string  `json:"url"`
	DocType *DocType `json:"docType"`
	Section *string  `json:"section"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
