package storemock

import (
	"context"
	"reports-api/schemas"
)

// Store is a function-backed mock that satisfies database.DocumentStore.
// Unset functions behave as an empty, always-successful store.
type Store struct {
	ListPageFn       func(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error)
	CreateDocumentFn func(ctx context.Context, collection, id string, report schemas.Report) (*schemas.Report, error)
	UpdateDocumentFn func(ctx context.Context, collection, id string, fields map[string]any) (*schemas.Report, error)
	DeleteDocumentFn func(ctx context.Context, collection, id string) error
}

func (m *Store) ListPage(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
	if m.ListPageFn != nil {
		return m.ListPageFn(ctx, collection, limit, offset)
	}
	return nil, nil
}

func (m *Store) CreateDocument(ctx context.Context, collection, id string, report schemas.Report) (*schemas.Report, error) {
	if m.CreateDocumentFn != nil {
		return m.CreateDocumentFn(ctx, collection, id, report)
	}
	report.ID = id
	return &report, nil
}

func (m *Store) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*schemas.Report, error) {
	if m.UpdateDocumentFn != nil {
		return m.UpdateDocumentFn(ctx, collection, id, fields)
	}
	return &schemas.Report{ID: id}, nil
}

func (m *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	if m.DeleteDocumentFn != nil {
		return m.DeleteDocumentFn(ctx, collection, id)
	}
	return nil
}
