package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/dtdocs"
)

// docColumns is the select list shared by every query that scans a full doc.
const docColumns = "id, url, title, doc_type, section, summary, content, returns, content_hash, position, scraped_at"

// rowScanner abstracts *sql.Row and *sql.Rows for scanDoc.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDoc scans a row selected with docColumns into a Doc.
func scanDoc(row rowScanner) (*dtdocs.Doc, error) {
	var doc dtdocs.Doc
	var scrapedAt string

	if err := row.Scan(&doc.ID, &doc.URL, &doc.Title, &doc.DocType, &doc.Section,
		&doc.Summary, &doc.Content, &doc.Returns, &doc.ContentHash, &doc.Position, &scrapedAt); err != nil {
		return nil, err
	}

	var err error
	doc.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
