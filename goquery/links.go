package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dtdocs"
)

// ExtractLinks finds in-scope documentation links in a page for the
// scrape frontier. Links are deduplicated, keeping the highest priority
// occurrence: reference index pages first, then individual doc pages.
// Links outside the documentation areas are dropped.
func ExtractLinks(html, baseURL string) ([]dtdocs.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var links []dtdocs.DiscoveredLink

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}

		priority, ok := linkPriority(resolved)
		if !ok {
			return
		}

		link := dtdocs.DiscoveredLink{
			URL:      resolved,
			Priority: priority,
			Text:     strings.TrimSpace(a.Text()),
		}

		if idx, dup := seen[resolved]; dup {
			if priority > links[idx].Priority {
				links[idx] = link
			}
			return
		}
		seen[resolved] = len(links)
		links = append(links, link)
	})

	return links, nil
}

// linkPriority classifies a URL for frontier ordering. Index pages list
// every item of their kind, so they are scraped first; pages that do not
// belong to a documentation area are dropped.
func linkPriority(rawURL string) (dtdocs.LinkPriority, bool) {
	segs := pathSegments(linkPath(rawURL))
	if len(segs) == 0 {
		return 0, false
	}

	switch segs[0] {
	case "reference":
		switch len(segs) {
		case 2:
			return dtdocs.PriorityIndex, true
		case 3:
			return dtdocs.PriorityPage, true
		}
	case "manual", "examples":
		if len(segs) == 1 {
			return dtdocs.PriorityIndex, true
		}
		return dtdocs.PriorityPage, true
	}

	return dtdocs.PriorityFallback, false
}

// linkPath returns the path component of a possibly relative URL.
func linkPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Path
}

// resolveURL resolves href against base, stripping fragments so anchor
// variants of the same page deduplicate. Self-referential links resolve
// to the empty string.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return ""
	}
	return resolved.String()
}

// isSameHost reports whether the resolved URL shares the base host.
// Subdomains count as different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink reports whether the href uses a scheme that can never
// be fetched (javascript:, mailto:, tel:, data:).
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
