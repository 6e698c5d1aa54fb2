package report

import (
	"context"
	"errors"
	"fmt"
	"reports-api/schemas"
	"reports-api/testutil/memstore"
	"reports-api/testutil/storemock"
	"reports-api/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReports(n int) []schemas.Report {
	out := make([]schemas.Report, n)
	for i := range out {
		out[i] = schemas.Report{ID: fmt.Sprintf("r-%03d", i)}
	}
	return out
}

func TestFetchAll_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		records     int
		pageSize    int
		wantOffsets []int
	}{
		{name: "empty collection", records: 0, pageSize: 100, wantOffsets: []int{0}},
		{name: "single short page", records: 42, pageSize: 100, wantOffsets: []int{0}},
		{name: "trailing short page", records: 250, pageSize: 100, wantOffsets: []int{0, 100, 200}},
		{name: "exact multiple ends on empty page", records: 200, pageSize: 100, wantOffsets: []int{0, 100, 200}},
		{name: "default page size", records: 150, pageSize: 0, wantOffsets: []int{0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backing := memstore.New(makeReports(tt.records)...)
			var offsets []int
			store := &storemock.Store{
				ListPageFn: func(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
					offsets = append(offsets, offset)
					return backing.ListPage(ctx, collection, limit, offset)
				},
			}

			got, err := FetchAll(context.Background(), store, "reports", FetchOptions{PageSize: tt.pageSize})
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, got, tt.records)
			assert.Equal(t, tt.wantOffsets, offsets)
			if tt.records > 0 {
				assert.Equal(t, "r-000", got[0].ID)
				assert.Equal(t, fmt.Sprintf("r-%03d", tt.records-1), got[len(got)-1].ID)
			}
		})
	}
}

func TestFetchAll_PageErrorDiscardsPartialData(t *testing.T) {
	store := &storemock.Store{
		ListPageFn: func(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
			if offset == 0 {
				return makeReports(limit), nil
			}
			return nil, errors.New("connection reset by peer")
		},
	}

	got, err := FetchAll(context.Background(), store, "reports", FetchOptions{PageSize: 10})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, utils.ErrConnectivity))
	assert.Contains(t, err.Error(), "offset 10")
}

func TestFetchAll_StopsAtPageCap(t *testing.T) {
	calls := 0
	store := &storemock.Store{
		ListPageFn: func(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
			calls++
			return makeReports(limit), nil
		},
	}

	got, err := FetchAll(context.Background(), store, "reports", FetchOptions{PageSize: 5, MaxPages: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, got, 15)
}
