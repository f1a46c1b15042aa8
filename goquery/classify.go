package goquery

import (
	"net/url"
	"strings"

	"github.com/fwojciec/dtdocs"
)

// classifyURL derives the doc type and section label from a page URL.
// Reference pages live under /reference/<kind>/, manual pages under
// /manual/ and examples under /examples/.
func classifyURL(pageURL string) (dtdocs.DocType, string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", "", dtdocs.Errorf(dtdocs.EINVALID, "invalid page URL: %v", err)
	}

	segs := pathSegments(parsed.Path)
	if len(segs) == 0 {
		return "", "", dtdocs.Errorf(dtdocs.EINVALID, "cannot classify URL: %s", pageURL)
	}

	switch segs[0] {
	case "reference":
		if len(segs) < 2 {
			return "", "", dtdocs.Errorf(dtdocs.EINVALID, "cannot classify URL: %s", pageURL)
		}
		switch segs[1] {
		case "api":
			return dtdocs.DocTypeAPI, "Reference > API", nil
		case "option":
			return dtdocs.DocTypeOption, "Reference > Options", nil
		case "event":
			return dtdocs.DocTypeEvent, "Reference > Events", nil
		case "button":
			return dtdocs.DocTypeButton, "Reference > Buttons", nil
		}
	case "manual":
		return dtdocs.DocTypeManual, manualSection(segs), nil
	case "examples":
		return dtdocs.DocTypeExample, "Examples", nil
	}

	return "", "", dtdocs.Errorf(dtdocs.EINVALID, "cannot classify URL: %s", pageURL)
}

// manualSection includes the manual chapter when present, e.g.
// /manual/server-side yields "Manual > Server-side".
func manualSection(segs []string) string {
	if len(segs) < 2 {
		return "Manual"
	}
	return "Manual > " + titleize(segs[1])
}

func pathSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// titleize turns a URL slug into a readable label ("server-side" into
// "Server-side").
func titleize(slug string) string {
	if slug == "" {
		return slug
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}

// categoryForPath maps a reference URL path to a related item category.
// Returns an empty string for non-reference paths.
func categoryForPath(path string) string {
	segs := pathSegments(path)
	if len(segs) < 2 || segs[0] != "reference" {
		return ""
	}
	switch segs[1] {
	case "api":
		return dtdocs.RelatedAPI
	case "option":
		return dtdocs.RelatedOption
	case "event":
		return dtdocs.RelatedEvent
	case "button":
		return dtdocs.RelatedButton
	}
	return ""
}
