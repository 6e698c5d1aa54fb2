package report

import (
	"context"
	"reports-api/database"
	"reports-api/metrics"
	"reports-api/schemas"

	"go.uber.org/zap"
)

// Deduplicate keeps the first occurrence of every id in reports and deletes
// each later occurrence, one request at a time. A failed delete is recorded in
// the summary and the remaining deletes still run. Records without an id are
// ignored.
func Deduplicate(ctx context.Context, store database.DocumentStore, collection string, reports []schemas.Report) schemas.DeduplicationSummary {
	log := zap.L().With(zap.String("collection", collection))

	seen := make(map[string]struct{}, len(reports))
	var duplicates []string
	for _, r := range reports {
		if r.ID == "" {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			duplicates = append(duplicates, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
	}

	summary := schemas.DeduplicationSummary{
		KeptCount: len(seen),
		Failures:  []schemas.FailedItem{},
	}

	for _, id := range duplicates {
		summary.DeletedCount++
		if err := store.DeleteDocument(ctx, collection, id); err != nil {
			summary.FailedCount++
			summary.Failures = append(summary.Failures, schemas.FailedItem{ID: id, Error: err.Error()})
			metrics.PipelineItemsTotal.WithLabelValues(schemas.BATCH_OPERATION_DEDUPLICATE, metrics.OUTCOME_FAILED).Inc()
			log.Warn("deduplicate: delete failed", zap.String("id", id), zap.Error(err))
			continue
		}
		metrics.PipelineItemsTotal.WithLabelValues(schemas.BATCH_OPERATION_DEDUPLICATE, metrics.OUTCOME_SUCCEEDED).Inc()
	}

	log.Info("deduplicate: finished",
		zap.Int("records", len(reports)),
		zap.Int("kept", summary.KeptCount),
		zap.Int("deleted", summary.DeletedCount),
		zap.Int("failed", summary.FailedCount),
	)
	return summary
}
