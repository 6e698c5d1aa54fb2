package report

import (
	"net/http"
	"reports-api/schemas"
	"reports-api/utils"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: NewValidator()}
}

// Register mounts the report routes on mux. wrap decorates every route,
// including the websocket handshake.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /v1/reports", wrap(http.HandlerFunc(h.GetAll)))
	mux.Handle("POST /v1/reports", wrap(http.HandlerFunc(h.CreateOne)))
	mux.Handle("GET /v1/reports/filters", wrap(http.HandlerFunc(h.GetFilters)))
	mux.Handle("GET /v1/reports/map-metrics", wrap(http.HandlerFunc(h.GetMapMetrics)))
	mux.Handle("POST /v1/reports/deduplicate", wrap(http.HandlerFunc(h.Deduplicate)))
	mux.Handle("POST /v1/reports/approve-all", wrap(http.HandlerFunc(h.ApproveAll)))
	mux.Handle("GET /v1/reports/batch-runs", wrap(http.HandlerFunc(h.GetBatchRuns)))
	if h.service.Hub != nil {
		mux.Handle("GET /v1/ws/reports", wrap(h.service.Hub))
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	limit := queryInt(params.Get("limit"), DEFAULT_PAGE_SIZE)
	if limit <= 0 || limit > DEFAULT_PAGE_SIZE {
		utils.SendResponse(w, http.StatusBadRequest, "limit must be between 1 and 100", nil, 0)
		return
	}
	offset := queryInt(params.Get("offset"), 0)
	if offset < 0 {
		utils.SendResponse(w, http.StatusBadRequest, "offset must not be negative", nil, 0)
		return
	}

	reports, err := h.service.Store.ListPage(ctx, h.service.Collection, limit, offset)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", reports, 0)
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", filters, 0)
}

func (h *Handler) GetMapMetrics(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	mode := params.Get("mode")
	if mode == "" {
		mode = schemas.MAP_MODE_DEFAULT
	}
	if mode != schemas.MAP_MODE_DEFAULT && mode != schemas.MAP_MODE_CHOROPLETH && mode != schemas.MAP_MODE_BUBBLE {
		utils.SendResponse(w, http.StatusBadRequest, "invalid map mode", nil, 0)
		return
	}

	metric := params.Get("metric")
	if metric != "" && metric != schemas.MAP_METRIC_INTERVENTIONS && metric != schemas.MAP_METRIC_IMPACT {
		utils.SendResponse(w, http.StatusBadRequest, "invalid map metric", nil, 0)
		return
	}

	opts := MapOptions{Metric: metric}
	if v := params.Get("base_size"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil || size < MIN_BUBBLE_RADIUS {
			utils.SendResponse(w, http.StatusBadRequest, "invalid base_size", nil, 0)
			return
		}
		opts.BaseSize = size
	}

	result, err := h.service.MapMetrics(r.Context(), mode, opts)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", result, 0)
}

func (h *Handler) Deduplicate(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RunDeduplication(r.Context())
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", summary, 0)
}

func (h *Handler) ApproveAll(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RunBulkApprove(r.Context())
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", summary, 0)
}

func (h *Handler) GetBatchRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"), DEFAULT_BATCH_RUNS_LIMIT)

	runs, err := h.service.History.Recent(r.Context(), limit)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.ERROR_TO_READ_BATCH_RUNS)
		return
	}
	utils.SendResponse(w, http.StatusOK, "", runs, 0)
}

func queryInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
