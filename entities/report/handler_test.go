package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reports-api/middlewares"
	"reports-api/schemas"
	"reports-api/testutil/memstore"
	"reports-api/testutil/storemock"
	"reports-api/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newTestMux(service *Service) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(service).Register(mux, func(next http.Handler) http.Handler { return next })
	return mux
}

func do(t *testing.T, mux http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_GetAll(t *testing.T) {
	mux := newTestMux(NewService(memstore.New(makeReports(5)...), "reports"))

	rec := do(t, mux, http.MethodGet, "/v1/reports?limit=2&offset=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]schemas.Report](t, rec)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "r-003", page.Data[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports?limit=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports?offset=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports?limit=abc", nil).Code)
}

func TestHandler_CreateOne(t *testing.T) {
	store := memstore.New()
	mux := newTestMux(NewService(store, "reports"))

	body := []byte(`{
		"strategicResultArea": "Animal Health",
		"subStrategicResultArea": "Vaccination",
		"interventionCountry": "Kenya",
		"partnerships": "FAO",
		"year": 2024,
		"impact": 12.5
	}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middlewares.UserContextKey, middlewares.AuthUser{ID: 7, Name: "amina", Email: "amina@example.org"}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[schemas.Report](t, rec).Data
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, schemas.REPORT_STATUS_PENDING_APPROVAL, created.Status)
	assert.Equal(t, schemas.StringList{"FAO"}, created.Partnerships)
	assert.Equal(t, "7", created.CreatedBy)
	assert.Equal(t, "amina", created.CreatedByUsername)
	assert.Len(t, store.Docs(), 1)
}

func TestHandler_CreateOneValidation(t *testing.T) {
	store := memstore.New()
	mux := newTestMux(NewService(store, "reports"))

	rec := do(t, mux, http.MethodPost, "/v1/reports", []byte(`{
		"subStrategicResultArea": "Vaccination",
		"interventionCountry": "Atlantis",
		"status": "published",
		"supportingLinks": ["not a url"]
	}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := map[string]string{}
	for _, fe := range decode[[]schemas.FieldError](t, rec).Data {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "strategicResultArea")
	assert.Equal(t, "must be a known region", fields["interventionCountry"])
	assert.Contains(t, fields, "status")
	assert.Equal(t, "is required", fields["year"])
	assert.Empty(t, store.Docs())

	rec = do(t, mux, http.MethodPost, "/v1/reports", []byte(`{`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, utils.SendInternalError(utils.REPORTS_INVALID_REQUEST_DATA), decode[any](t, rec).Message)
}

func TestHandler_GetMapMetrics(t *testing.T) {
	mux := newTestMux(NewService(memstore.New(schemas.Report{ID: "a", InterventionCountry: "Ghana"}), "reports"))

	rec := do(t, mux, http.MethodGet, "/v1/reports/map-metrics?mode=bubble&metric=interventions&base_size=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[schemas.MapMetrics](t, rec).Data
	assert.Equal(t, schemas.MAP_MODE_BUBBLE, got.Mode)
	for _, m := range got.Metrics {
		if m.Region == "Ghana" {
			assert.InDelta(t, 30.0, m.Radius, 1e-9)
		}
	}

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports/map-metrics?mode=heatmap", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports/map-metrics?metric=budget", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/reports/map-metrics?base_size=2", nil).Code)
}

func TestHandler_BatchRoutes(t *testing.T) {
	store := memstore.New(schemas.Report{ID: "a"}, schemas.Report{ID: "a"})
	service := NewService(store, "reports")
	service.History = newTestHistory(t)
	mux := newTestMux(service)

	rec := do(t, mux, http.MethodPost, "/v1/reports/deduplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[schemas.DeduplicationSummary](t, rec).Data.DeletedCount)

	rec = do(t, mux, http.MethodPost, "/v1/reports/approve-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[schemas.BulkApproveSummary](t, rec).Data.SuccessCount)

	rec = do(t, mux, http.MethodGet, "/v1/reports/batch-runs?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]schemas.BatchRun](t, rec).Data
	assert.Len(t, runs, 2)
}

func TestHandler_StoreUnreachable(t *testing.T) {
	store := &storemock.Store{
		ListPageFn: func(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
			return nil, errors.New("server selection timeout")
		},
	}
	mux := newTestMux(NewService(store, "reports"))

	for _, target := range []string{"/v1/reports/filters", "/v1/reports/map-metrics"} {
		rec := do(t, mux, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code, target)
	}
	assert.Equal(t, http.StatusBadGateway, do(t, mux, http.MethodPost, "/v1/reports/approve-all", nil).Code)
}

func TestHandler_WebsocketGoesThroughWrap(t *testing.T) {
	service := NewService(memstore.New(), "reports")
	service.Hub = NewHub()

	mux := http.NewServeMux()
	NewHandler(service).Register(mux, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	rec := do(t, mux, http.MethodGet, "/v1/ws/reports", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, service.Hub.ClientCount())
}

func TestHandler_CreateOneInsertFailure(t *testing.T) {
	store := &storemock.Store{
		CreateDocumentFn: func(ctx context.Context, collection, id string, report schemas.Report) (*schemas.Report, error) {
			return nil, errors.New("E11000 duplicate key")
		},
	}
	mux := newTestMux(NewService(store, "reports"))

	rec := do(t, mux, http.MethodPost, "/v1/reports", []byte(`{"year": 2024}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, utils.SendInternalError(utils.ERROR_TO_INSERT_IN_MONGODB), decode[any](t, rec).Message)
}
