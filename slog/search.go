// Package slog provides logging decorators for dtdocs services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dtdocs"
)

// Ensure LoggingSearchService implements dtdocs.SearchService.
var _ dtdocs.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with request logging.
// Logs go to stderr in the MCP server so they never corrupt the
// protocol stream on stdout.
type LoggingSearchService struct {
	next   dtdocs.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next dtdocs.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, filter dtdocs.SearchFilter) (results []*dtdocs.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", filter.Query,
			"hits", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, filter)
}

// FindDetailsByName delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) FindDetailsByName(ctx context.Context, name string) (details *dtdocs.DocDetails, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find details",
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDetailsByName(ctx, name)
}

// SearchExamples delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) SearchExamples(ctx context.Context, query, language string, limit int) (results []*dtdocs.ExampleResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search examples",
			"query", query,
			"language", language,
			"hits", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchExamples(ctx, query, language, limit)
}

// FindRelated delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) FindRelated(ctx context.Context, name, category string) (items []*dtdocs.RelatedItem, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find related",
			"name", name,
			"category", category,
			"hits", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRelated(ctx, name, category)
}
