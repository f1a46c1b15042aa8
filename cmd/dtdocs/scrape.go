package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	var urlFilter *dtdocs.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &dtdocs.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	fmt.Fprintf(deps.Stdout, "Scraping %s\n", c.URL)

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			if event.Total > 0 {
				fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
			}
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", scrape.TruncateURL(event.URL, 60), event.Error)
		case scrape.ProgressFinished:
			// Summary printed after the scrape completes
		}
	}

	result, err := deps.Scraper.Scrape(deps.Ctx, c.URL, urlFilter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d pages (%s), %d failed\n",
		result.Saved, scrape.FormatBytes(result.Bytes), result.Failed)

	return nil
}
