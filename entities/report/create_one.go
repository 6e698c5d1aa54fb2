package report

import (
	"encoding/json"
	"net/http"
	"reports-api/middlewares"
	"reports-api/schemas"
	"reports-api/utils"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type CreateReportRequest struct {
	StrategicResultArea    string             `json:"strategicResultArea" validate:"required_with=SubStrategicResultArea"`
	SubStrategicResultArea string             `json:"subStrategicResultArea"`
	InterventionCountry    string             `json:"interventionCountry" validate:"omitempty,region"`
	Partnerships           schemas.StringList `json:"partnerships"`
	Year                   int                `json:"year" validate:"required,gte=1900,lte=2100"`
	Details                schemas.StringList `json:"details"`
	SdgContribution        schemas.StringList `json:"sdgContribution"`
	SupportingLinks        schemas.StringList `json:"supportingLinks" validate:"omitempty,dive,url"`
	Status                 string             `json:"status" validate:"omitempty,oneof=draft pending_approval approved archived"`
	Impact                 *float64           `json:"impact" validate:"omitempty,gte=0"`
}

// Report builds the document to insert. Timestamps and the creator come from
// the server, never from the request body.
func (req CreateReportRequest) Report(user middlewares.AuthUser, now time.Time) schemas.Report {
	status := req.Status
	if status == "" {
		status = schemas.REPORT_STATUS_PENDING_APPROVAL
	}

	report := schemas.Report{
		StrategicResultArea:    req.StrategicResultArea,
		SubStrategicResultArea: req.SubStrategicResultArea,
		InterventionCountry:    req.InterventionCountry,
		Partnerships:           schemas.StringList(schemas.NormalizePartnerships(schemas.Report{Partnerships: req.Partnerships})),
		Year:                   req.Year,
		Details:                req.Details,
		SdgContribution:        req.SdgContribution,
		SupportingLinks:        req.SupportingLinks,
		Status:                 status,
		Impact:                 req.Impact,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if user.ID != 0 {
		report.CreatedBy = strconv.Itoa(user.ID)
		report.CreatedByUsername = user.Name
	}
	if status == schemas.REPORT_STATUS_APPROVED && report.CreatedBy != "" {
		report.ApprovedBy = report.CreatedBy
		report.ApprovedByUsername = report.CreatedByUsername
		report.ApprovedAt = &now
	}
	return report
}

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, eris.Wrapf(utils.ErrValidation, "decode report: %v", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.SendValidationErrors(w, ToFieldErrors(err))
		return
	}

	user, _ := middlewares.UserFromContext(ctx)
	created, err := h.service.Store.CreateDocument(ctx, h.service.Collection, "", req.Report(user, time.Now().UTC()))
	if err != nil {
		zap.L().Error("reports: create failed", zap.Error(err))
		utils.SendResponse(w, utils.StatusForError(err), "", nil, utils.ERROR_TO_INSERT_IN_MONGODB)
		return
	}

	if err := h.service.Cache.Invalidate(ctx); err != nil {
		zap.L().Warn("reports: cache invalidation failed", zap.Error(err))
	}

	utils.SendResponse(w, http.StatusCreated, "", created, 0)
}
