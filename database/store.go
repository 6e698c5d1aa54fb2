package database

import (
	"context"
	"reports-api/schemas"
)

// DocumentStore is the remote paginated collection the report pipelines run against.
type DocumentStore interface {
	// ListPage returns at most limit documents starting at offset, in the
	// store's default order.
	ListPage(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error)

	// CreateDocument inserts report under id, or under a generated id when id is empty.
	CreateDocument(ctx context.Context, collection, id string, report schemas.Report) (*schemas.Report, error)

	// UpdateDocument applies a partial update and returns the updated document.
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*schemas.Report, error)

	DeleteDocument(ctx context.Context, collection, id string) error
}
