package report

import (
	"context"
	"reports-api/database"
	"reports-api/metrics"
	"reports-api/schemas"
	"time"

	"go.uber.org/zap"
)

// Service wires the report pipelines to their collaborators. HTTP handlers and
// the CLI share it; it holds no state between calls beyond its dependencies.
type Service struct {
	Store      database.DocumentStore
	Collection string
	Fetch      FetchOptions
	Approve    BulkApproveOptions

	// Optional collaborators; nil disables them.
	Cache   *FilterCache
	History *RunHistory
	Hub     *Hub
}

func NewService(store database.DocumentStore, collection string) *Service {
	return &Service{
		Store:      store,
		Collection: collection,
		Fetch:      FetchOptions{PageSize: DEFAULT_PAGE_SIZE, MaxPages: DEFAULT_MAX_PAGES},
	}
}

func (s *Service) FetchAll(ctx context.Context) ([]schemas.Report, error) {
	return FetchAll(ctx, s.Store, s.Collection, s.Fetch)
}

// Filters serves the taxonomy from cache when possible. An empty collection
// yields SeedFilters.
func (s *Service) Filters(ctx context.Context) (schemas.ReportFilters, error) {
	cached, ok, err := s.Cache.Get(ctx)
	if err != nil {
		zap.L().Warn("filters: cache read failed", zap.Error(err))
	}
	if ok {
		return *cached, nil
	}

	reports, err := s.FetchAll(ctx)
	if err != nil {
		return schemas.ReportFilters{}, err
	}

	filters := SeedFilters()
	if len(reports) > 0 {
		filters = ExtractFilters(reports)
	}

	if err := s.Cache.Set(ctx, filters); err != nil {
		zap.L().Warn("filters: cache write failed", zap.Error(err))
	}
	return filters, nil
}

func (s *Service) MapMetrics(ctx context.Context, mode string, opts MapOptions) (schemas.MapMetrics, error) {
	reports, err := s.FetchAll(ctx)
	if err != nil {
		return schemas.MapMetrics{}, err
	}
	return ComputeMapMetrics(reports, schemas.KnownRegions, mode, opts), nil
}

func (s *Service) RunDeduplication(ctx context.Context) (schemas.DeduplicationSummary, error) {
	started := time.Now().UTC()

	reports, err := s.FetchAll(ctx)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(schemas.BATCH_OPERATION_DEDUPLICATE, metrics.OUTCOME_FAILED).Inc()
		return schemas.DeduplicationSummary{}, err
	}

	summary := Deduplicate(ctx, s.Store, s.Collection, reports)
	s.afterBatch(ctx, schemas.BatchRun{
		Operation:  schemas.BATCH_OPERATION_DEDUPLICATE,
		Total:      summary.DeletedCount,
		Succeeded:  summary.DeletedCount - summary.FailedCount,
		Failed:     summary.FailedCount,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, summary.DeletedCount > summary.FailedCount)
	return summary, nil
}

func (s *Service) RunBulkApprove(ctx context.Context) (schemas.BulkApproveSummary, error) {
	started := time.Now().UTC()

	reports, err := s.FetchAll(ctx)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(schemas.BATCH_OPERATION_APPROVE_ALL, metrics.OUTCOME_FAILED).Inc()
		return schemas.BulkApproveSummary{}, err
	}

	summary := BulkApprove(ctx, s.Store, s.Collection, reports, s.Approve)
	s.afterBatch(ctx, schemas.BatchRun{
		Operation:  schemas.BATCH_OPERATION_APPROVE_ALL,
		Total:      len(reports),
		Succeeded:  summary.SuccessCount,
		Failed:     summary.FailureCount,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, summary.SuccessCount > 0)
	return summary, nil
}

// afterBatch records and announces a finished run. None of these steps can
// fail the run itself.
func (s *Service) afterBatch(ctx context.Context, run schemas.BatchRun, changed bool) {
	metrics.PipelineRunsTotal.WithLabelValues(run.Operation, metrics.OUTCOME_SUCCEEDED).Inc()

	if changed {
		if err := s.Cache.Invalidate(ctx); err != nil {
			zap.L().Warn("batch: cache invalidation failed", zap.String("operation", run.Operation), zap.Error(err))
		}
	}

	run, err := s.History.Record(ctx, run)
	if err != nil {
		zap.L().Warn("batch: run not recorded", zap.String("operation", run.Operation), zap.Error(err))
	}

	s.Hub.Broadcast(ReportWSMessage{Action: run.Operation, Run: run})
}
