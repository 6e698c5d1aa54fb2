package report

import (
	"context"
	"reports-api/database"
	"reports-api/metrics"
	"reports-api/schemas"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SYSTEM_ACTOR_ID       = "system"
	SYSTEM_ACTOR_USERNAME = "system-migration"
)

type BulkApproveOptions struct {
	// Concurrency caps in-flight updates. Zero sends every update at once.
	Concurrency int
	// Now stamps approvedAt/updatedAt. Defaults to time.Now in UTC.
	Now func() time.Time
}

// ApprovalFields builds the partial update that moves one report to approved.
func ApprovalFields(now time.Time) map[string]any {
	return map[string]any{
		"status":             schemas.REPORT_STATUS_APPROVED,
		"approvedBy":         SYSTEM_ACTOR_ID,
		"approvedByUsername": SYSTEM_ACTOR_USERNAME,
		"approvedAt":         now,
		"updatedAt":          now,
	}
}

// BulkApprove sends one approval update per report concurrently and waits for
// all of them to settle. Failures are collected per report; they never stop
// the other updates.
func BulkApprove(ctx context.Context, store database.DocumentStore, collection string, reports []schemas.Report, opts BulkApproveOptions) schemas.BulkApproveSummary {
	log := zap.L().With(zap.String("collection", collection))

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	var (
		mu      sync.Mutex
		summary = schemas.BulkApproveSummary{Failures: []schemas.FailedItem{}}
	)

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for _, r := range reports {
		id := r.ID
		g.Go(func() error {
			_, err := store.UpdateDocument(ctx, collection, id, ApprovalFields(now()))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.FailureCount++
				summary.Failures = append(summary.Failures, schemas.FailedItem{ID: id, Error: err.Error()})
				metrics.PipelineItemsTotal.WithLabelValues(schemas.BATCH_OPERATION_APPROVE_ALL, metrics.OUTCOME_FAILED).Inc()
				log.Warn("approve: update failed", zap.String("id", id), zap.Error(err))
				return nil
			}
			summary.SuccessCount++
			metrics.PipelineItemsTotal.WithLabelValues(schemas.BATCH_OPERATION_APPROVE_ALL, metrics.OUTCOME_SUCCEEDED).Inc()
			return nil
		})
	}
	_ = g.Wait()

	log.Info("approve: finished",
		zap.Int("records", len(reports)),
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailureCount),
	)
	return summary
}
