// Package fs exports scraped documentation as Markdown files on disk.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/dtdocs"
)

// URLToPath converts a documentation URL to a relative file path.
// Example: https://datatables.net/reference/api/ajax() becomes
// reference/api/ajax().md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", dtdocs.Errorf(dtdocs.EINVALID, "invalid doc URL: %v", err)
	}

	path := u.Path

	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// Exporter writes docs into a directory with atomic update semantics.
// Files accumulate in a temporary directory and replace the final
// directory on Commit, so a failed export never leaves a half-written
// tree behind.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates an Exporter. baseDir is the parent directory,
// name is the output directory name. Files are written to
// baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// SaveDoc writes one doc as a Markdown file under the temp directory.
func (e *Exporter) SaveDoc(ctx context.Context, doc *dtdocs.Doc) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatDoc(doc)), 0644)
}

// Commit atomically replaces the final directory with the temp
// directory.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the temp directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// FormatDoc renders a doc with YAML frontmatter.
func FormatDoc(doc *dtdocs.Doc) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\ntype: ")
	b.WriteString(string(doc.DocType))
	if !doc.ScrapedAt.IsZero() {
		b.WriteString("\nscraped: ")
		b.WriteString(doc.ScrapedAt.Format("2006-01-02"))
	}
	b.WriteString("\n---\n\n")
	b.WriteString("# ")
	b.WriteString(doc.Title)
	b.WriteString("\n\n")
	if doc.Summary != "" {
		b.WriteString(doc.Summary)
		b.WriteString("\n\n")
	}
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
