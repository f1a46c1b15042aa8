// Package mock provides mock implementations of dtdocs interfaces for testing.
package mock

import (
	"context"

	"github.com/fwojciec/dtdocs"
)

var _ dtdocs.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of dtdocs.SearchService.
type SearchService struct {
	SearchFn            func(ctx context.Context, filter dtdocs.SearchFilter) ([]*dtdocs.SearchResult, error)
	FindDetailsByNameFn func(ctx context.Context, name string) (*dtdocs.DocDetails, error)
	SearchExamplesFn    func(ctx context.Context, query, language string, limit int) ([]*dtdocs.ExampleResult, error)
	FindRelatedFn       func(ctx context.Context, name, category string) ([]*dtdocs.RelatedItem, error)
}

func (s *SearchService) Search(ctx context.Context, filter dtdocs.SearchFilter) ([]*dtdocs.SearchResult, error) {
	return s.SearchFn(ctx, filter)
}

func (s *SearchService) FindDetailsByName(ctx context.Context, name string) (*dtdocs.DocDetails, error) {
	return s.FindDetailsByNameFn(ctx, name)
}

func (s *SearchService) SearchExamples(ctx context.Context, query, language string, limit int) ([]*dtdocs.ExampleResult, error) {
	return s.SearchExamplesFn(ctx, query, language, limit)
}

func (s *SearchService) FindRelated(ctx context.Context, name, category string) ([]*dtdocs.RelatedItem, error) {
	return s.FindRelatedFn(ctx, name, category)
}
