package dtdocs

import (
	"fmt"
	"strings"
)

// FormatSearchResults formats ranked search results as readable text for
// tool responses. Results are separated by blank lines.
func FormatSearchResults(results []*SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "## %s (%s)\n", r.Doc.Title, r.Doc.DocType)
		fmt.Fprintf(&b, "URL: %s\n", r.Doc.URL)
		if r.Snippet != "" {
			b.WriteString(r.Snippet)
		} else if r.Doc.Summary != "" {
			b.WriteString(r.Doc.Summary)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatDocDetails formats a doc with its parameters, return type, examples
// and related items.
func FormatDocDetails(details *DocDetails) string {
	var b strings.Builder

	doc := details.Doc
	fmt.Fprintf(&b, "# %s\n", doc.Title)
	fmt.Fprintf(&b, "Type: %s | Section: %s\nURL: %s\n", doc.DocType, doc.Section, doc.URL)

	if doc.Summary != "" {
		b.WriteString("\n" + doc.Summary + "\n")
	}

	if len(details.Parameters) > 0 {
		b.WriteString("\n## Parameters\n")
		for _, p := range details.Parameters {
			req := "required"
			if p.Optional {
				req = "optional"
			}
			fmt.Fprintf(&b, "- %s (%s, %s)", p.Name, p.Type, req)
			if p.Default != "" {
				fmt.Fprintf(&b, " default: %s", p.Default)
			}
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			b.WriteString("\n")
		}
	}

	if doc.Returns != "" {
		fmt.Fprintf(&b, "\n## Returns\n%s\n", doc.Returns)
	}

	if doc.Content != "" {
		fmt.Fprintf(&b, "\n## Description\n%s\n", doc.Content)
	}

	if len(details.Examples) > 0 {
		b.WriteString("\n## Examples\n")
		for _, e := range details.Examples {
			if e.Description != "" {
				b.WriteString(e.Description + "\n")
			}
			fmt.Fprintf(&b, "```%s\n%s\n```\n", e.Language, e.Code)
		}
	}

	if len(details.Related) > 0 {
		b.WriteString("\n## Related\n")
		for _, r := range details.Related {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Name, r.Category)
		}
	}

	return b.String()
}

// FormatExampleResults formats matched code examples with their source docs.
func FormatExampleResults(results []*ExampleResult) string {
	if len(results) == 0 {
		return "No examples found."
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "## %s\nURL: %s\n", r.Doc.Title, r.Doc.URL)
		if r.Example.Description != "" {
			b.WriteString(r.Example.Description + "\n")
		}
		fmt.Fprintf(&b, "```%s\n%s\n```", r.Example.Language, r.Example.Code)
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatRelatedItems formats cross-references for a named doc.
func FormatRelatedItems(name string, items []*RelatedItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No related items found for %q.", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Related to %s:\n", name)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s)", item.Name, item.Category)
		if item.URL != "" {
			fmt.Fprintf(&b, " %s", item.URL)
		}
		b.WriteString("\n")
	}

	return b.String()
}
