package mock

import (
	"context"

	"github.com/fwojciec/dtdocs"
)

var _ dtdocs.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of dtdocs.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ dtdocs.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of dtdocs.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *dtdocs.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *dtdocs.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ dtdocs.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of dtdocs.Extractor.
type Extractor struct {
	ExtractFn func(url, html string) (*dtdocs.ExtractResult, error)
}

func (e *Extractor) Extract(url, html string) (*dtdocs.ExtractResult, error) {
	return e.ExtractFn(url, html)
}

var _ dtdocs.Converter = (*Converter)(nil)

// Converter is a mock implementation of dtdocs.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ dtdocs.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of dtdocs.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
