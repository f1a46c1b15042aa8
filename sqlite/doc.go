package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dtdocs"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ dtdocs.DocService = (*DocService)(nil)

// DocService implements dtdocs.DocService using SQLite.
type DocService struct {
	db *DB
}

// NewDocService creates a new DocService.
func NewDocService(db *DB) *DocService {
	return &DocService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// CreateDoc creates a doc with its parameters, examples and related items
// in a single transaction.
func (s *DocService) CreateDoc(ctx context.Context, details *dtdocs.DocDetails) error {
	doc := details.Doc
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.ScrapedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Content)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO docs (id, url, title, doc_type, section, summary, content, returns, content_hash, position, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.URL, doc.Title, doc.DocType, doc.Section, doc.Summary, doc.Content,
		doc.Returns, doc.ContentHash, doc.Position, doc.ScrapedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return dtdocs.Errorf(dtdocs.ECONFLICT, "doc already exists for URL %q", doc.URL)
		}
		return err
	}

	for i, p := range details.Parameters {
		p.DocID = doc.ID
		if p.Position == 0 {
			p.Position = i
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO parameters (doc_id, name, type, description, optional, dflt, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.DocID, p.Name, p.Type, p.Description, p.Optional, p.Default, p.Position); err != nil {
			return err
		}
	}

	for i, e := range details.Examples {
		e.DocID = doc.ID
		if e.Position == 0 {
			e.Position = i
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO examples (doc_id, language, code, description, position)
			VALUES (?, ?, ?, ?, ?)
		`, e.DocID, e.Language, e.Code, e.Description, e.Position); err != nil {
			return err
		}
	}

	for _, r := range details.Related {
		r.DocID = doc.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO related (doc_id, name, category, url)
			VALUES (?, ?, ?, ?)
		`, r.DocID, r.Name, r.Category, r.URL); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDocByID retrieves a doc by ID.
func (s *DocService) FindDocByID(ctx context.Context, id string) (*dtdocs.Doc, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+docColumns+` FROM docs WHERE id = ?`, id)

	doc, err := scanDoc(row)
	if err == sql.ErrNoRows {
		return nil, dtdocs.Errorf(dtdocs.ENOTFOUND, "doc not found")
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FindDocs retrieves docs matching the filter.
func (s *DocService) FindDocs(ctx context.Context, filter dtdocs.DocFilter) ([]*dtdocs.Doc, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + docColumns + " FROM docs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.DocType != nil {
		query.WriteString(" AND doc_type = ?")
		args = append(args, *filter.DocType)
	}
	if filter.Section != nil {
		query.WriteString(" AND section = ?")
		args = append(args, *filter.Section)
	}

	query.WriteString(" ORDER BY position ASC, title ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*dtdocs.Doc
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocByURL removes a doc and its derived fields by source URL.
// Derived rows cascade via foreign keys.
func (s *DocService) DeleteDocByURL(ctx context.Context, url string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM docs WHERE url = ?`, url)
	return err
}

// CountDocs returns the number of stored docs per doc type.
func (s *DocService) CountDocs(ctx context.Context) (map[dtdocs.DocType]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_type, COUNT(*) FROM docs GROUP BY doc_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[dtdocs.DocType]int)
	for rows.Next() {
		var docType dtdocs.DocType
		var n int
		if err := rows.Scan(&docType, &n); err != nil {
			return nil, err
		}
		counts[docType] = n
	}

	return counts, rows.Err()
}
