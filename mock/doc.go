package mock

import (
	"context"

	"github.com/fwojciec/dtdocs"
)

var _ dtdocs.DocService = (*DocService)(nil)

// DocService is a mock implementation of dtdocs.DocService.
type DocService struct {
	CreateDocFn      func(ctx context.Context, details *dtdocs.DocDetails) error
	FindDocByIDFn    func(ctx context.Context, id string) (*dtdocs.Doc, error)
	FindDocsFn       func(ctx context.Context, filter dtdocs.DocFilter) ([]*dtdocs.Doc, error)
	DeleteDocByURLFn func(ctx context.Context, url string) error
	CountDocsFn      func(ctx context.Context) (map[dtdocs.DocType]int, error)
}

func (s *DocService) CreateDoc(ctx context.Context, details *dtdocs.DocDetails) error {
	return s.CreateDocFn(ctx, details)
}

func (s *DocService) FindDocByID(ctx context.Context, id string) (*dtdocs.Doc, error) {
	return s.FindDocByIDFn(ctx, id)
}

func (s *DocService) FindDocs(ctx context.Context, filter dtdocs.DocFilter) ([]*dtdocs.Doc, error) {
	return s.FindDocsFn(ctx, filter)
}

func (s *DocService) DeleteDocByURL(ctx context.Context, url string) error {
	return s.DeleteDocByURLFn(ctx, url)
}

func (s *DocService) CountDocs(ctx context.Context) (map[dtdocs.DocType]int, error) {
	return s.CountDocsFn(ctx)
}
