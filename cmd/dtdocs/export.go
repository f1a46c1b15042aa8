package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	docs, err := deps.Docs.FindDocs(deps.Ctx, dtdocs.DocFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dtdocs.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "Database is empty. Run 'dtdocs scrape' to populate it.")
		return nil
	}

	exporter := fs.NewExporter(c.Dir, c.Name)

	for _, doc := range docs {
		if err := exporter.SaveDoc(deps.Ctx, doc); err != nil {
			_ = exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error exporting %s: %s\n", doc.URL, dtdocs.ErrorMessage(err))
			return err
		}
	}

	if err := exporter.Commit(); err != nil {
		_ = exporter.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d docs to %s\n", len(docs), filepath.Join(c.Dir, c.Name))
	return nil
}
