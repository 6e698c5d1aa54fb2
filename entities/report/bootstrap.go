package report

import (
	"context"
	"os"
	"reports-api/database"
	"reports-api/utils"
	"time"

	"go.uber.org/zap"
)

// Bootstrap builds a Service from the loaded environment. Redis and MySQL are
// attached only when their URIs are set. The returned cleanup closes every
// connection that was opened.
func Bootstrap(ctx context.Context) (*Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := database.Connect(ctx, os.Getenv(utils.MONGODB_URI))
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

	service := NewService(database.NewMongoStore(client, database.GetDB()), database.COLLECTION_REPORTS)
	service.Fetch = FetchOptions{
		PageSize: utils.GetEnvInt(utils.REPORTS_PAGE_SIZE, DEFAULT_PAGE_SIZE),
		MaxPages: utils.GetEnvInt(utils.REPORTS_MAX_PAGES, DEFAULT_MAX_PAGES),
	}
	service.Approve = BulkApproveOptions{
		Concurrency: utils.GetEnvInt(utils.BULK_APPROVE_CONCURRENCY, 0),
	}
	service.Hub = NewHub()

	if uri := os.Getenv(utils.REDIS_URI); uri != "" {
		rdb, err := database.OpenRedis(ctx, uri)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		ttl := time.Duration(utils.GetEnvInt(utils.FILTERS_CACHE_TTL_SECONDS, int(DEFAULT_FILTERS_CACHE_TTL/time.Second))) * time.Second
		service.Cache = NewFilterCache(rdb, ttl)
	} else {
		zap.L().Info("REDIS_URI not set, filters cache disabled")
	}

	if dsn := os.Getenv(utils.MYSQL_URI); dsn != "" {
		db, err := database.OpenMySQL(ctx, dsn)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = db.Close() })
		service.History = NewRunHistory(db)
		if err := service.History.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
	} else {
		zap.L().Info("MYSQL_URI not set, batch runs are not recorded")
	}

	return service, cleanup, nil
}
