package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/dtdocs"
)

// Compile-time interface verification.
var _ dtdocs.SearchService = (*SearchService)(nil)

// SearchService implements dtdocs.SearchService using FTS5.
//
// Query strings are passed to MATCH verbatim; callers are responsible for
// sanitizing raw user input first (dtdocs.SanitizeQuery).
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search runs a ranked full-text search over doc titles, summaries and content.
func (s *SearchService) Search(ctx context.Context, filter dtdocs.SearchFilter) ([]*dtdocs.SearchResult, error) {
	if strings.TrimSpace(filter.Query) == "" {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "search query required")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = dtdocs.DefaultSearchLimit
	}

	var query strings.Builder
	args := []any{filter.Query}

	query.WriteString(`
		SELECT d.` + strings.ReplaceAll(docColumns, ", ", ", d.") + `,
			docs_fts.rank,
			snippet(docs_fts, -1, '', '', '...', 16)
		FROM docs_fts
		JOIN docs d ON d.rowid = docs_fts.rowid
		WHERE docs_fts MATCH ?`)

	if filter.DocType != nil {
		query.WriteString(" AND d.doc_type = ?")
		args = append(args, *filter.DocType)
	}
	if filter.Section != nil {
		query.WriteString(" AND d.section = ?")
		args = append(args, *filter.Section)
	}

	// bm25: lower rank is a better match.
	query.WriteString(" ORDER BY docs_fts.rank LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*dtdocs.SearchResult
	for rows.Next() {
		var doc dtdocs.Doc
		var scrapedAt string
		var result dtdocs.SearchResult

		if err := rows.Scan(&doc.ID, &doc.URL, &doc.Title, &doc.DocType, &doc.Section,
			&doc.Summary, &doc.Content, &doc.Returns, &doc.ContentHash, &doc.Position, &scrapedAt,
			&result.Rank, &result.Snippet); err != nil {
			return nil, err
		}

		var parseErr error
		doc.ScrapedAt, parseErr = parseRFC3339(scrapedAt, "scraped_at")
		if parseErr != nil {
			return nil, parseErr
		}

		result.Doc = &doc
		results = append(results, &result)
	}

	return results, rows.Err()
}

// FindDetailsByName retrieves a doc with all derived fields by title.
func (s *SearchService) FindDetailsByName(ctx context.Context, name string) (*dtdocs.DocDetails, error) {
	doc, err := s.findDocByName(ctx, name)
	if err != nil {
		return nil, err
	}

	details := &dtdocs.DocDetails{Doc: doc}

	if details.Parameters, err = s.findParameters(ctx, doc.ID); err != nil {
		return nil, err
	}
	if details.Examples, err = s.findExamples(ctx, doc.ID); err != nil {
		return nil, err
	}
	if details.Related, err = s.findRelated(ctx, doc.ID, ""); err != nil {
		return nil, err
	}

	return details, nil
}

// SearchExamples runs a full-text search restricted to code examples.
func (s *SearchService) SearchExamples(ctx context.Context, query, language string, limit int) ([]*dtdocs.ExampleResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "search query required")
	}
	if limit <= 0 {
		limit = dtdocs.DefaultSearchLimit
	}

	var q strings.Builder
	args := []any{query}

	q.WriteString(`
		SELECT e.language, e.code, e.description, e.position, d.` + strings.ReplaceAll(docColumns, ", ", ", d.") + `
		FROM examples_fts
		JOIN examples e ON e.id = examples_fts.rowid
		JOIN docs d ON d.id = e.doc_id
		WHERE examples_fts MATCH ?`)

	if language != "" {
		q.WriteString(" AND e.language = ?")
		args = append(args, language)
	}

	q.WriteString(" ORDER BY examples_fts.rank LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*dtdocs.ExampleResult
	for rows.Next() {
		var example dtdocs.Example
		var doc dtdocs.Doc
		var scrapedAt string

		if err := rows.Scan(&example.Language, &example.Code, &example.Description, &example.Position,
			&doc.ID, &doc.URL, &doc.Title, &doc.DocType, &doc.Section,
			&doc.Summary, &doc.Content, &doc.Returns, &doc.ContentHash, &doc.Position, &scrapedAt); err != nil {
			return nil, err
		}

		var parseErr error
		doc.ScrapedAt, parseErr = parseRFC3339(scrapedAt, "scraped_at")
		if parseErr != nil {
			return nil, parseErr
		}

		example.DocID = doc.ID
		results = append(results, &dtdocs.ExampleResult{Example: &example, Doc: &doc})
	}

	return results, rows.Err()
}

// FindRelated returns items related to the named doc.
func (s *SearchService) FindRelated(ctx context.Context, name, category string) ([]*dtdocs.RelatedItem, error) {
	doc, err := s.findDocByName(ctx, name)
	if err != nil {
		return nil, err
	}

	return s.findRelated(ctx, doc.ID, category)
}

// findDocByName resolves a doc by exact title, falling back to the shortest
// title with the name as prefix (so "ajax.reload" finds "ajax.reload()").
func (s *SearchService) findDocByName(ctx context.Context, name string) (*dtdocs.Doc, error) {
	if strings.TrimSpace(name) == "" {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "name required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+docColumns+` FROM docs WHERE title = ?`, name)
	doc, err := scanDoc(row)
	if err == nil {
		return doc, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT `+docColumns+` FROM docs
		WHERE title LIKE ? || '%'
		ORDER BY length(title) ASC
		LIMIT 1
	`, name)
	doc, err = scanDoc(row)
	if err == sql.ErrNoRows {
		return nil, dtdocs.Errorf(dtdocs.ENOTFOUND, "no documentation found for %q", name)
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *SearchService) findParameters(ctx context.Context, docID string) ([]*dtdocs.Parameter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, name, type, description, optional, dflt, position
		FROM parameters
		WHERE doc_id = ?
		ORDER BY position ASC
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []*dtdocs.Parameter
	for rows.Next() {
		var p dtdocs.Parameter
		if err := rows.Scan(&p.DocID, &p.Name, &p.Type, &p.Description, &p.Optional, &p.Default, &p.Position); err != nil {
			return nil, err
		}
		params = append(params, &p)
	}

	return params, rows.Err()
}

func (s *SearchService) findExamples(ctx context.Context, docID string) ([]*dtdocs.Example, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, language, code, description, position
		FROM examples
		WHERE doc_id = ?
		ORDER BY position ASC
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var examples []*dtdocs.Example
	for rows.Next() {
		var e dtdocs.Example
		if err := rows.Scan(&e.DocID, &e.Language, &e.Code, &e.Description, &e.Position); err != nil {
			return nil, err
		}
		examples = append(examples, &e)
	}

	return examples, rows.Err()
}

func (s *SearchService) findRelated(ctx context.Context, docID, category string) ([]*dtdocs.RelatedItem, error) {
	var query strings.Builder
	args := []any{docID}

	query.WriteString(`SELECT doc_id, name, category, url FROM related WHERE doc_id = ?`)
	if category != "" {
		query.WriteString(" AND category = ?")
		args = append(args, category)
	}
	query.WriteString(" ORDER BY category ASC, name ASC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*dtdocs.RelatedItem
	for rows.Next() {
		var item dtdocs.RelatedItem
		if err := rows.Scan(&item.DocID, &item.Name, &item.Category, &item.URL); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}
