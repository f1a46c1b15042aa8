package scrape_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/mock"
	"github.com/fwojciec/dtdocs/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docStore is a mock.DocService wired to collect saved docs in memory.
type docStore struct {
	mu      sync.Mutex
	saved   []*dtdocs.DocDetails
	deleted []string
}

func (s *docStore) service() *mock.DocService {
	return &mock.DocService{
		CreateDocFn: func(_ context.Context, details *dtdocs.DocDetails) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.saved = append(s.saved, details)
			return nil
		},
		DeleteDocByURLFn: func(_ context.Context, url string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.deleted = append(s.deleted, url)
			return nil
		},
	}
}

// passthroughPipeline returns extractor and converter mocks that build a
// doc whose title is derived from the page URL.
func passthroughPipeline() (*mock.Extractor, *mock.Converter) {
	extractor := &mock.Extractor{
		ExtractFn: func(url, _ string) (*dtdocs.ExtractResult, error) {
			parts := strings.Split(url, "/")
			return &dtdocs.ExtractResult{
				Title:       parts[len(parts)-1],
				DocType:     dtdocs.DocTypeAPI,
				Section:     "Reference > API",
				Summary:     "summary",
				ContentHTML: "<p>description</p>",
			}, nil
		},
	}
	converter := &mock.Converter{
		ConvertFn: func(_ string) (string, error) {
			return "description", nil
		},
	}
	return extractor, converter
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("scrapes sitemap URLs and saves docs in order", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://datatables.net/reference/api/ajax()",
			"https://datatables.net/reference/api/draw()",
			"https://datatables.net/reference/api/rows()",
		}

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return urls, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Extractor:   extractor,
			Converter:   converter,
			Docs:        store.service(),
			Concurrency: 2,
			RetryDelays: []time.Duration{0},
		}

		result, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 3*len("description"), result.Bytes)

		require.Len(t, store.saved, 3)
		assert.Equal(t, "ajax()", store.saved[0].Doc.Title)
		assert.Equal(t, 0, store.saved[0].Doc.Position)
		assert.Equal(t, "draw()", store.saved[1].Doc.Title)
		assert.Equal(t, 1, store.saved[1].Doc.Position)
		assert.Equal(t, "rows()", store.saved[2].Doc.Title)
		assert.Equal(t, "description", store.saved[0].Doc.Content)
	})

	t.Run("replaces previously scraped docs", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{"https://datatables.net/reference/api/ajax()"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Extractor:   extractor,
			Converter:   converter,
			Docs:        store.service(),
			RetryDelays: []time.Duration{0},
		}

		_, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://datatables.net/reference/api/ajax()"}, store.deleted)
	})

	t.Run("counts failed URLs without aborting the scrape", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{
						"https://datatables.net/reference/api/broken()",
						"https://datatables.net/reference/api/draw()",
					}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if strings.Contains(url, "broken") {
						return "", fmt.Errorf("HTTP 500 for %s", url)
					}
					return "<html></html>", nil
				},
			},
			Extractor:   extractor,
			Converter:   converter,
			Docs:        store.service(),
			Concurrency: 1,
			RetryDelays: []time.Duration{0},
		}

		result, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("retries failed fetches before giving up", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		var attempts int
		var mu sync.Mutex

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{"https://datatables.net/reference/api/ajax()"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					mu.Lock()
					defer mu.Unlock()
					attempts++
					if attempts < 3 {
						return "", fmt.Errorf("transient error")
					}
					return "<html></html>", nil
				},
			},
			Extractor:   extractor,
			Converter:   converter,
			Docs:        store.service(),
			RetryDelays: []time.Duration{0, 0, 0},
		}

		result, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 3, attempts)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{"https://datatables.net/reference/api/ajax()"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Extractor:   extractor,
			Converter:   converter,
			Docs:        store.service(),
			RetryDelays: []time.Duration{0},
		}

		var events []scrape.ProgressType
		_, err := s.Scrape(context.Background(), "https://datatables.net/", nil, func(e scrape.ProgressEvent) {
			events = append(events, e.Type)
		})

		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, scrape.ProgressStarted, events[0])
		assert.Equal(t, scrape.ProgressCompleted, events[1])
		assert.Equal(t, scrape.ProgressFinished, events[2])
	})

	t.Run("waits on the rate limiter per request", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		var waits int
		var mu sync.Mutex

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{
						"https://datatables.net/reference/api/ajax()",
						"https://datatables.net/reference/api/draw()",
					}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Extractor: extractor,
			Converter: converter,
			Docs:      store.service(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					mu.Lock()
					defer mu.Unlock()
					waits++
					assert.Equal(t, "datatables.net", domain)
					return nil
				},
			},
			Concurrency: 1,
			RetryDelays: []time.Duration{0},
		}

		_, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, waits)
	})
}

func TestScraper_FrontierScrape(t *testing.T) {
	t.Parallel()

	t.Run("follows links from the index pages when sitemap is empty", func(t *testing.T) {
		t.Parallel()

		// Index pages link to two doc pages; doc pages link back to the
		// index, which the frontier deduplicates.
		pages := map[string]string{
			"https://datatables.net/reference/api": `<body>
<a href="/reference/api/ajax()">ajax()</a>
<a href="/reference/api/draw()">draw()</a>
</body>`,
			"https://datatables.net/reference/api/ajax()": `<body><h1>ajax()</h1><a href="/reference/api">back</a></body>`,
			"https://datatables.net/reference/api/draw()": `<body><h1>draw()</h1></body>`,
		}

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					html, ok := pages[url]
					if !ok {
						return "", fmt.Errorf("HTTP 404 for %s", url)
					}
					return html, nil
				},
			},
			Extractor: extractor,
			Converter: converter,
			Docs:      store.service(),
			ExtractLinks: func(html, baseURL string) ([]dtdocs.DiscoveredLink, error) {
				var links []dtdocs.DiscoveredLink
				if strings.Contains(html, `ajax()">ajax()`) {
					links = append(links,
						dtdocs.DiscoveredLink{URL: "https://datatables.net/reference/api/ajax()", Priority: dtdocs.PriorityPage},
						dtdocs.DiscoveredLink{URL: "https://datatables.net/reference/api/draw()", Priority: dtdocs.PriorityPage},
					)
				}
				if strings.Contains(html, `api">back`) {
					links = append(links, dtdocs.DiscoveredLink{URL: "https://datatables.net/reference/api", Priority: dtdocs.PriorityIndex})
				}
				return links, nil
			},
			RetryDelays: []time.Duration{0},
		}

		result, err := s.Scrape(context.Background(), "https://datatables.net/", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)

		// Index pages feed the frontier but are not stored.
		var urls []string
		for _, d := range store.saved {
			urls = append(urls, d.Doc.URL)
		}
		assert.ElementsMatch(t, []string{
			"https://datatables.net/reference/api/ajax()",
			"https://datatables.net/reference/api/draw()",
		}, urls)
	})

	t.Run("applies URL filter to discovered links", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		extractor, converter := passthroughPipeline()

		var fetched []string
		var mu sync.Mutex

		s := &scrape.Scraper{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *dtdocs.URLFilter) ([]string, error) {
					return []string{}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					if strings.HasSuffix(url, "/reference/api") {
						return "<body>index</body>", nil
					}
					return "", fmt.Errorf("HTTP 404 for %s", url)
				},
			},
			Extractor: extractor,
			Converter: converter,
			Docs:      store.service(),
			ExtractLinks: func(html, _ string) ([]dtdocs.DiscoveredLink, error) {
				if !strings.Contains(html, "index") {
					return nil, nil
				}
				return []dtdocs.DiscoveredLink{
					{URL: "https://datatables.net/reference/api/ajax()", Priority: dtdocs.PriorityPage},
					{URL: "https://datatables.net/reference/option/paging", Priority: dtdocs.PriorityPage},
				}, nil
			},
			RetryDelays: []time.Duration{0},
		}

		onlyAPI := &dtdocs.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/reference/api/`)},
		}

		_, err := s.Scrape(context.Background(), "https://datatables.net/", onlyAPI, nil)
		require.NoError(t, err)

		assert.Contains(t, fetched, "https://datatables.net/reference/api/ajax()")
		assert.NotContains(t, fetched, "https://datatables.net/reference/option/paging")
	})
}
