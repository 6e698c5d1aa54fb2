package report

import (
	"context"
	"reports-api/database"
	"reports-api/metrics"
	"reports-api/schemas"
	"reports-api/utils"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	DEFAULT_PAGE_SIZE = 100
	DEFAULT_MAX_PAGES = 1000
)

type FetchOptions struct {
	// PageSize defaults to DEFAULT_PAGE_SIZE when not positive.
	PageSize int
	// MaxPages stops the loop after that many requests. Zero means no cap.
	MaxPages int
}

// FetchAll reads the whole collection one page at a time. Pages are requested
// sequentially at offsets 0, L, 2L... until a short page comes back. Any page
// failure aborts the fetch and nothing is returned.
func FetchAll(ctx context.Context, store database.DocumentStore, collection string, opts FetchOptions) ([]schemas.Report, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DEFAULT_PAGE_SIZE
	}

	all := []schemas.Report{}
	for page := 0; opts.MaxPages == 0 || page < opts.MaxPages; page++ {
		offset := page * pageSize

		started := time.Now()
		docs, err := store.ListPage(ctx, collection, pageSize, offset)
		metrics.FetchPageDuration.WithLabelValues(collection).Observe(time.Since(started).Seconds())
		if err != nil {
			return nil, eris.Wrapf(utils.ErrConnectivity, "fetch %s page at offset %d: %v", collection, offset, err)
		}

		all = append(all, docs...)
		if len(docs) < pageSize {
			return all, nil
		}
	}

	zap.L().Warn("fetch: page cap reached before a short page",
		zap.String("collection", collection),
		zap.Int("max_pages", opts.MaxPages),
		zap.Int("records", len(all)),
	)
	return all, nil
}
