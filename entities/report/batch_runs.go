package report

import (
	"context"
	"database/sql"
	"reports-api/schemas"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

const DEFAULT_BATCH_RUNS_LIMIT = 20

const createBatchRunsTable = `CREATE TABLE IF NOT EXISTS report_batch_runs (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	operation VARCHAR(32) NOT NULL,
	total INT NOT NULL,
	succeeded INT NOT NULL,
	failed INT NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
)`

// RunHistory keeps one row per deduplicate / approve-all run. A nil
// *RunHistory records nothing.
type RunHistory struct {
	db *sql.DB
}

func NewRunHistory(db *sql.DB) *RunHistory {
	return &RunHistory{db: db}
}

func (h *RunHistory) EnsureSchema(ctx context.Context) error {
	if h == nil {
		return nil
	}
	_, err := h.db.ExecContext(ctx, createBatchRunsTable)
	return eris.Wrap(err, "create report_batch_runs")
}

// Record stores run and returns it with its generated id.
func (h *RunHistory) Record(ctx context.Context, run schemas.BatchRun) (schemas.BatchRun, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if h == nil {
		return run, nil
	}

	_, err := h.db.ExecContext(ctx,
		"INSERT INTO report_batch_runs (id, operation, total, succeeded, failed, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Operation, run.Total, run.Succeeded, run.Failed, run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return run, eris.Wrap(err, "insert batch run")
	}
	return run, nil
}

// Recent lists the latest runs, newest first.
func (h *RunHistory) Recent(ctx context.Context, limit int) ([]schemas.BatchRun, error) {
	if h == nil {
		return []schemas.BatchRun{}, nil
	}
	if limit <= 0 {
		limit = DEFAULT_BATCH_RUNS_LIMIT
	}

	rows, err := h.db.QueryContext(ctx,
		"SELECT id, operation, total, succeeded, failed, started_at, finished_at FROM report_batch_runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "query batch runs")
	}
	defer rows.Close()

	runs := []schemas.BatchRun{}
	for rows.Next() {
		var run schemas.BatchRun
		if err := rows.Scan(&run.ID, &run.Operation, &run.Total, &run.Succeeded, &run.Failed, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "scan batch run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate batch runs")
	}
	return runs, nil
}
