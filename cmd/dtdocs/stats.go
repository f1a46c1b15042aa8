package main

import (
	"fmt"
	"sort"

	"github.com/fwojciec/dtdocs"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	counts, err := deps.Docs.CountDocs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dtdocs.ErrorMessage(err))
		return err
	}

	total := 0
	types := make([]string, 0, len(counts))
	for docType, n := range counts {
		total += n
		types = append(types, string(docType))
	}
	sort.Strings(types)

	if total == 0 {
		fmt.Fprintln(deps.Stdout, "Database is empty. Run 'dtdocs scrape' to populate it.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%d documents:\n", total)
	for _, docType := range types {
		fmt.Fprintf(deps.Stdout, "  %-8s %d\n", docType, counts[dtdocs.DocType(docType)])
	}

	return nil
}
