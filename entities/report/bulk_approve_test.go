package report

import (
	"context"
	"errors"
	"reports-api/schemas"
	"reports-api/testutil/memstore"
	"reports-api/testutil/storemock"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBulkApprove_StampsEveryReport(t *testing.T) {
	store := memstore.New(
		schemas.Report{ID: "a", Status: schemas.REPORT_STATUS_DRAFT},
		schemas.Report{ID: "b", Status: schemas.REPORT_STATUS_PENDING_APPROVAL},
		schemas.Report{ID: "c", Status: schemas.REPORT_STATUS_APPROVED},
	)

	summary := BulkApprove(context.Background(), store, "reports", store.Docs(), BulkApproveOptions{
		Now: func() time.Time { return fixedNow },
	})

	assert.Equal(t, 3, summary.SuccessCount)
	assert.Zero(t, summary.FailureCount)
	assert.Empty(t, summary.Failures)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, store.Updates)

	for _, r := range store.Docs() {
		assert.Equal(t, schemas.REPORT_STATUS_APPROVED, r.Status, r.ID)
		assert.Equal(t, SYSTEM_ACTOR_ID, r.ApprovedBy)
		assert.Equal(t, SYSTEM_ACTOR_USERNAME, r.ApprovedByUsername)
		require.NotNil(t, r.ApprovedAt)
		assert.Equal(t, fixedNow, *r.ApprovedAt)
		assert.Equal(t, fixedNow, r.UpdatedAt)
	}
}

func TestBulkApprove_IsolatesFailures(t *testing.T) {
	store := memstore.New(makeReports(10)...)
	store.FailUpdate = map[string]error{
		"r-002": errors.New("timeout"),
		"r-007": errors.New("permission denied"),
	}

	summary := BulkApprove(context.Background(), store, "reports", store.Docs(), BulkApproveOptions{})

	assert.Equal(t, 8, summary.SuccessCount)
	assert.Equal(t, 2, summary.FailureCount)
	assert.Equal(t, 10, summary.SuccessCount+summary.FailureCount)
	assert.Len(t, store.Updates, 10)

	failed := []string{}
	for _, f := range summary.Failures {
		failed = append(failed, f.ID)
	}
	assert.ElementsMatch(t, []string{"r-002", "r-007"}, failed)
}

func TestBulkApprove_EmptyInput(t *testing.T) {
	summary := BulkApprove(context.Background(), &storemock.Store{}, "reports", nil, BulkApproveOptions{})

	assert.Equal(t, schemas.BulkApproveSummary{Failures: []schemas.FailedItem{}}, summary)
}

func TestBulkApprove_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	var mu sync.Mutex
	fields := map[string]map[string]any{}

	store := &storemock.Store{
		UpdateDocumentFn: func(ctx context.Context, collection, id string, f map[string]any) (*schemas.Report, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			fields[id] = f
			mu.Unlock()
			return &schemas.Report{ID: id}, nil
		},
	}

	summary := BulkApprove(context.Background(), store, "reports", makeReports(20), BulkApproveOptions{
		Concurrency: 3,
		Now:         func() time.Time { return fixedNow },
	})

	assert.Equal(t, 20, summary.SuccessCount)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Len(t, fields, 20)
	assert.Equal(t, ApprovalFields(fixedNow), fields["r-000"])
}
