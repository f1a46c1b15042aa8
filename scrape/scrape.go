// Package scrape orchestrates scraping the documentation site. It
// coordinates sitemap discovery, fetching, extraction, Markdown
// conversion and storage of documentation pages.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/dtdocs"
	"golang.org/x/sync/errgroup"
)

// LinkExtractFunc finds in-scope documentation links in a page.
type LinkExtractFunc func(html, baseURL string) ([]dtdocs.DiscoveredLink, error)

// Scraper coordinates a full scrape of the documentation site.
type Scraper struct {
	Sitemaps     dtdocs.SitemapService
	Fetcher      dtdocs.Fetcher
	Extractor    dtdocs.Extractor
	Converter    dtdocs.Converter
	Docs         dtdocs.DocService
	RateLimiter  dtdocs.DomainLimiter
	ExtractLinks LinkExtractFunc
	Concurrency  int
	RetryDelays  []time.Duration
}

// Result holds the outcome of a scrape.
type Result struct {
	Saved  int
	Failed int
	Bytes  int
}

// ProgressEvent reports progress as the scrape proceeds.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	url      string
	details  *dtdocs.DocDetails
	err      error
}

// Frontier configuration for link-following when the sitemap yields
// nothing.
const (
	frontierExpectedURLs      = 50000
	frontierFalsePositiveRate = 0.001
	maxFrontierURLs           = 5000
)

// Scrape discovers and stores every documentation page under baseURL.
// Sitemap discovery is tried first; when it yields nothing the scraper
// falls back to following links from the reference index pages. The
// progress callback, if provided, receives events as scraping proceeds.
func (s *Scraper) Scrape(ctx context.Context, baseURL string, filter *dtdocs.URLFilter, progress ProgressFunc) (*Result, error) {
	urls, err := s.Sitemaps.DiscoverURLs(ctx, baseURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	if len(urls) == 0 {
		return s.frontierScrape(ctx, baseURL, filter, progress)
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	resultCh := make(chan pageResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range urls {
			i, pageURL := i, pageURL
			g.Go(func() error {
				resultCh <- s.processURL(gctx, i, pageURL)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, len(urls))
	var failed int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
					Error:     result.err,
				})
			}
			continue
		}
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       result.url,
			})
		}
	}

	// Save in discovery order so positions are stable across scrapes.
	var saved, bytes int
	for _, result := range results {
		if result.err != nil || result.details == nil {
			continue
		}
		if err := s.saveDoc(ctx, result.details); err != nil {
			failed++
			continue
		}
		saved++
		bytes += len(result.details.Doc.Content)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &Result{Saved: saved, Failed: failed, Bytes: bytes}, nil
}

// processURL fetches one page and turns it into storable doc details.
func (s *Scraper) processURL(ctx context.Context, position int, pageURL string) pageResult {
	result := pageResult{position: position, url: pageURL}

	if s.RateLimiter != nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			result.err = err
			return result
		}
		if err := s.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			result.err = err
			return result
		}
	}

	html, err := s.fetchWithRetry(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	details, err := s.buildDoc(pageURL, html, position)
	if err != nil {
		result.err = err
		return result
	}

	result.details = details
	return result
}

// buildDoc extracts structured fields and converts the description to
// Markdown.
func (s *Scraper) buildDoc(pageURL, html string, position int) (*dtdocs.DocDetails, error) {
	extracted, err := s.Extractor.Extract(pageURL, html)
	if err != nil {
		return nil, err
	}

	content := ""
	if strings.TrimSpace(extracted.ContentHTML) != "" {
		content, err = s.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			return nil, err
		}
	}

	return &dtdocs.DocDetails{
		Doc: &dtdocs.Doc{
			URL:      pageURL,
			Title:    extracted.Title,
			DocType:  extracted.DocType,
			Section:  extracted.Section,
			Summary:  extracted.Summary,
			Content:  content,
			Returns:  extracted.Returns,
			Position: position,
		},
		Parameters: extracted.Parameters,
		Examples:   extracted.Examples,
		Related:    extracted.Related,
	}, nil
}

// saveDoc stores the page, replacing any previously scraped version of
// the same URL.
func (s *Scraper) saveDoc(ctx context.Context, details *dtdocs.DocDetails) error {
	if err := s.Docs.DeleteDocByURL(ctx, details.Doc.URL); err != nil {
		return err
	}
	return s.Docs.CreateDoc(ctx, details)
}

func (s *Scraper) fetchWithRetry(ctx context.Context, pageURL string) (string, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, pageURL, s.Fetcher.Fetch, delays)
}

// frontierScrape follows links starting from the documentation index
// pages. URLs are processed sequentially to keep rate limiting and
// frontier bookkeeping simple; datatables.net is small enough for this
// to finish in minutes.
func (s *Scraper) frontierScrape(ctx context.Context, baseURL string, filter *dtdocs.URLFilter, progress ProgressFunc) (*Result, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "invalid base URL: %v", err)
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, seed := range seedLinks(base) {
		frontier.Push(seed)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted})
	}

	var result Result
	position := 0
	processed := 0

	for {
		link, ok := frontier.Pop()
		if !ok || processed >= maxFrontierURLs {
			break
		}
		processed++

		if ctx.Err() != nil {
			break
		}

		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, base.Host); err != nil {
				break
			}
		}

		html, err := s.fetchWithRetry(ctx, link.URL)
		if err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: link.URL, Error: err})
			}
			continue
		}

		if s.ExtractLinks != nil {
			if links, err := s.ExtractLinks(html, link.URL); err == nil {
				for _, discovered := range links {
					if filter.Match(discovered.URL) {
						frontier.Push(discovered)
					}
				}
			}
		}

		// Index pages only feed the frontier; their content is a
		// listing, not documentation.
		if isIndexURL(link.URL) {
			continue
		}

		details, err := s.buildDoc(link.URL, html, position)
		if err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: link.URL, Error: err})
			}
			continue
		}
		position++

		if err := s.saveDoc(ctx, details); err != nil {
			result.Failed++
			continue
		}

		result.Saved++
		result.Bytes += len(details.Doc.Content)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, URL: link.URL})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished})
	}

	return &result, nil
}

// seedLinks returns the index pages that list every documented item.
func seedLinks(base *url.URL) []dtdocs.DiscoveredLink {
	paths := []string{
		"/reference/api",
		"/reference/option",
		"/reference/event",
		"/reference/button",
		"/manual",
		"/examples",
	}

	links := make([]dtdocs.DiscoveredLink, 0, len(paths))
	for _, p := range paths {
		u := *base
		u.Path = p
		links = append(links, dtdocs.DiscoveredLink{
			URL:      u.String(),
			Priority: dtdocs.PriorityIndex,
		})
	}
	return links
}

// isIndexURL reports whether the URL is a listing page rather than an
// individual doc page.
func isIndexURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	var segs []string
	for _, s := range strings.Split(parsed.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	switch {
	case len(segs) == 2 && segs[0] == "reference":
		return true
	case len(segs) == 1 && (segs[0] == "manual" || segs[0] == "examples"):
		return true
	}
	return false
}
