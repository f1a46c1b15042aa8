// Package sqlite provides SQLite-based storage for dtdocs services,
// including the FTS5 full-text index used by search.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
//
// docs_fts is an external-content FTS5 table over docs, kept in sync by
// triggers so writes through DocService never touch the index directly.
// examples_fts indexes code examples the same way.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS docs (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			doc_type TEXT NOT NULL DEFAULT '',
			section TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			returns TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			scraped_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS parameters (
			doc_id TEXT NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			optional INTEGER NOT NULL DEFAULT 0,
			dflt TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS examples (
			id INTEGER PRIMARY KEY,
			doc_id TEXT NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
			language TEXT NOT NULL DEFAULT '',
			code TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS related (
			doc_id TEXT NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_docs_doc_type ON docs(doc_type);
		CREATE INDEX IF NOT EXISTS idx_docs_title ON docs(title);
		CREATE INDEX IF NOT EXISTS idx_parameters_doc_id ON parameters(doc_id);
		CREATE INDEX IF NOT EXISTS idx_examples_doc_id ON examples(doc_id);
		CREATE INDEX IF NOT EXISTS idx_related_doc_id ON related(doc_id);

		CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(
			title, summary, content,
			content='docs', content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS docs_fts_insert AFTER INSERT ON docs BEGIN
			INSERT INTO docs_fts(rowid, title, summary, content)
			VALUES (new.rowid, new.title, new.summary, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS docs_fts_delete AFTER DELETE ON docs BEGIN
			INSERT INTO docs_fts(docs_fts, rowid, title, summary, content)
			VALUES ('delete', old.rowid, old.title, old.summary, old.content);
		END;

		CREATE TRIGGER IF NOT EXISTS docs_fts_update AFTER UPDATE ON docs BEGIN
			INSERT INTO docs_fts(docs_fts, rowid, title, summary, content)
			VALUES ('delete', old.rowid, old.title, old.summary, old.content);
			INSERT INTO docs_fts(rowid, title, summary, content)
			VALUES (new.rowid, new.title, new.summary, new.content);
		END;

		CREATE VIRTUAL TABLE IF NOT EXISTS examples_fts USING fts5(
			code, description,
			content='examples', content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS examples_fts_insert AFTER INSERT ON examples BEGIN
			INSERT INTO examples_fts(rowid, code, description)
			VALUES (new.id, new.code, new.description);
		END;

		CREATE TRIGGER IF NOT EXISTS examples_fts_delete AFTER DELETE ON examples BEGIN
			INSERT INTO examples_fts(examples_fts, rowid, code, description)
			VALUES ('delete', old.id, old.code, old.description);
		END;
	`

	_, err := db.db.Exec(schema)
	return err
}
