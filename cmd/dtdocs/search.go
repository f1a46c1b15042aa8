package main

import (
	"fmt"

	"github.com/fwojciec/dtdocs"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	filter := dtdocs.SearchFilter{
		Query: dtdocs.SanitizeQuery(c.Query),
		Limit: c.Limit,
	}

	if c.Type != "" {
		docType := dtdocs.DocType(c.Type)
		switch docType {
		case dtdocs.DocTypeAPI, dtdocs.DocTypeOption, dtdocs.DocTypeEvent,
			dtdocs.DocTypeButton, dtdocs.DocTypeManual, dtdocs.DocTypeExample:
			filter.DocType = &docType
		default:
			fmt.Fprintf(deps.Stderr, "error: invalid doc type %q\n", c.Type)
			return dtdocs.Errorf(dtdocs.EINVALID, "invalid doc type: %s", c.Type)
		}
	}

	if c.Section != "" {
		filter.Section = &c.Section
	}

	results, err := deps.Search.Search(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dtdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, dtdocs.FormatSearchResults(results))
	return nil
}
