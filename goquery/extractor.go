// Package goquery extracts structured fields from datatables.net
// documentation pages using CSS selectors.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dtdocs"
)

// Ensure Extractor implements dtdocs.Extractor at compile time.
var _ dtdocs.Extractor = (*Extractor)(nil)

// Extractor pulls the title, summary, description, parameter table,
// return type, code examples and cross-references out of a reference
// page. The doc type and section come from the page URL, not the HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML from the given URL.
func (e *Extractor) Extract(pageURL, html string) (*dtdocs.ExtractResult, error) {
	docType, section, err := classifyURL(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "failed to parse HTML: %v", err)
	}

	content := contentRoot(doc)

	// Boilerplate never contributes to any extracted field.
	content.Find("nav, header, footer, aside, script, style, .sidebar").Remove()

	result := &dtdocs.ExtractResult{
		DocType:    docType,
		Section:    section,
		Title:      extractTitle(content),
		Summary:    extractSummary(content),
		Returns:    extractReturns(content),
		Parameters: extractParameters(content),
		Examples:   extractExamples(content),
		Related:    extractRelated(content),
	}

	if result.Title == "" {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "no title found in %s", pageURL)
	}

	// Description HTML is captured last so the structural blocks above
	// can be dropped from it.
	result.ContentHTML = extractDescription(content)

	return result, nil
}

// contentRoot finds the main content container, falling back to the
// whole body when the page has no recognizable landmark.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"main", "article", "#content", "div.content"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Find("body")
}

// extractTitle reads the first h1, dropping decoration like the
// "Since: DataTables 1.10" version badge.
func extractTitle(content *goquery.Selection) string {
	h1 := content.Find("h1").First()
	if h1.Length() == 0 {
		return ""
	}
	h1.Find("span, small, sup").Remove()
	return strings.TrimSpace(h1.Text())
}

// extractSummary prefers the dedicated summary paragraph and falls back
// to the first paragraph of the page.
func extractSummary(content *goquery.Selection) string {
	if p := content.Find("p.summary, .info > p").First(); p.Length() > 0 {
		return strings.TrimSpace(p.Text())
	}
	return strings.TrimSpace(content.Find("p").First().Text())
}

// extractDescription returns the description block as HTML. It prefers
// the dedicated description container, otherwise it uses the remaining
// content with the already-extracted structural blocks removed.
func extractDescription(content *goquery.Selection) string {
	if d := content.Find("div.description").First(); d.Length() > 0 {
		html, err := d.Html()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(html)
	}

	rest := content.Clone()
	rest.Find("h1, p.summary, table.parameters, div.returns, div.examples, div.related").Remove()
	html, err := rest.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

// extractReturns reads the return type from the dedicated block or from
// the paragraph following a "Returns" heading.
func extractReturns(content *goquery.Selection) string {
	if r := content.Find("div.returns").First(); r.Length() > 0 {
		return strings.TrimSpace(r.Text())
	}

	var returns string
	content.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(h.Text()), "returns") {
			return true
		}
		returns = strings.TrimSpace(h.NextFiltered("p, div").First().Text())
		return false
	})
	return returns
}

// extractParameters reads the parameter table. Columns are located by
// header name so column order does not matter.
func extractParameters(content *goquery.Selection) []*dtdocs.Parameter {
	table := content.Find("table.parameters").First()
	if table.Length() == 0 {
		return nil
	}

	cols := map[string]int{}
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		cols[strings.ToLower(strings.TrimSpace(th.Text()))] = i
	})

	cell := func(row *goquery.Selection, name string) string {
		idx, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row.Find("td").Eq(idx).Text())
	}

	var params []*dtdocs.Parameter
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		name := cell(row, "name")
		if name == "" {
			return
		}
		params = append(params, &dtdocs.Parameter{
			Name:        name,
			Type:        cell(row, "type"),
			Description: cell(row, "description"),
			Optional:    strings.EqualFold(cell(row, "optional"), "yes"),
			Default:     cell(row, "default"),
			Position:    len(params),
		})
	})
	return params
}

var languageClassRe = regexp.MustCompile(`(?:^|\s)(?:language|lang)-(\w+)`)

// extractExamples reads code examples. Each example block pairs an
// optional description paragraph with a fenced code sample; bare code
// blocks outside example containers are picked up too.
func extractExamples(content *goquery.Selection) []*dtdocs.Example {
	var examples []*dtdocs.Example

	add := func(code *goquery.Selection, description string) {
		text := strings.TrimRight(code.Text(), "\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		examples = append(examples, &dtdocs.Example{
			Language:    codeLanguage(code),
			Code:        text,
			Description: description,
			Position:    len(examples),
		})
	}

	blocks := content.Find("div.examples div.example, div.example")
	blocks.Each(func(_ int, block *goquery.Selection) {
		code := block.Find("pre").First()
		if code.Length() == 0 {
			return
		}
		add(code, strings.TrimSpace(block.Find("p").First().Text()))
	})

	if len(examples) == 0 {
		content.Find("pre").Each(func(_ int, pre *goquery.Selection) {
			add(pre, "")
		})
	}

	return examples
}

// codeLanguage resolves the example language from language-* classes on
// the pre element or its code child. DataTables examples are
// overwhelmingly JavaScript, so that is the default.
func codeLanguage(pre *goquery.Selection) string {
	for _, sel := range []*goquery.Selection{pre.Find("code").First(), pre} {
		if class, ok := sel.Attr("class"); ok {
			if m := languageClassRe.FindStringSubmatch(class); m != nil {
				return m[1]
			}
		}
	}
	return "js"
}

// extractRelated reads cross-reference links from the related block.
// The category comes from each link's URL path.
func extractRelated(content *goquery.Selection) []*dtdocs.RelatedItem {
	var related []*dtdocs.RelatedItem
	seen := make(map[string]bool)

	content.Find("div.related a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		name := strings.TrimSpace(a.Text())
		if href == "" || name == "" || seen[href] {
			return
		}
		category := categoryForPath(linkPath(href))
		if category == "" {
			return
		}
		seen[href] = true
		related = append(related, &dtdocs.RelatedItem{
			Name:     name,
			Category: category,
			URL:      href,
		})
	})

	return related
}
