package schemas

import (
	"time"
)

const (
	REPORT_STATUS_DRAFT            = "draft"
	REPORT_STATUS_PENDING_APPROVAL = "pending_approval"
	REPORT_STATUS_APPROVED         = "approved"
	REPORT_STATUS_ARCHIVED         = "archived"

	MAP_MODE_DEFAULT    = "default"
	MAP_MODE_CHOROPLETH = "choropleth"
	MAP_MODE_BUBBLE     = "bubble"

	MAP_METRIC_INTERVENTIONS = "interventions"
	MAP_METRIC_IMPACT        = "impact"

	BATCH_OPERATION_DEDUPLICATE = "deduplicate"
	BATCH_OPERATION_APPROVE_ALL = "approve_all"
)

var ReportStatuses = []string{
	REPORT_STATUS_DRAFT,
	REPORT_STATUS_PENDING_APPROVAL,
	REPORT_STATUS_APPROVED,
	REPORT_STATUS_ARCHIVED,
}

type Report struct {
	ID                     string     `json:"id" bson:"_id,omitempty"`
	StrategicResultArea    string     `json:"strategicResultArea,omitempty" bson:"strategicResultArea,omitempty"`
	SubStrategicResultArea string     `json:"subStrategicResultArea,omitempty" bson:"subStrategicResultArea,omitempty"`
	InterventionCountry    string     `json:"interventionCountry,omitempty" bson:"interventionCountry,omitempty"`
	Partnerships           StringList `json:"partnerships,omitempty" bson:"partnerships,omitempty"`
	Year                   int        `json:"year" bson:"year"`
	Details                StringList `json:"details,omitempty" bson:"details,omitempty"`
	SdgContribution        StringList `json:"sdgContribution,omitempty" bson:"sdgContribution,omitempty"`
	SupportingLinks        StringList `json:"supportingLinks,omitempty" bson:"supportingLinks,omitempty"`
	Status                 string     `json:"status" bson:"status"`
	Impact                 *float64   `json:"impact,omitempty" bson:"impact,omitempty"`
	CreatedBy              string     `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedByUsername      string     `json:"createdByUsername,omitempty" bson:"createdByUsername,omitempty"`
	ApprovedBy             string     `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedByUsername     string     `json:"approvedByUsername,omitempty" bson:"approvedByUsername,omitempty"`
	CreatedAt              time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt" bson:"updatedAt"`
	ApprovedAt             *time.Time `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
}

// ImpactValue returns the report impact, 0 when it was never set.
func (r Report) ImpactValue() float64 {
	if r.Impact == nil {
		return 0
	}
	return *r.Impact
}

type ReportFilters struct {
	Hierarchy    map[string][]string `json:"hierarchy"`
	Countries    []string            `json:"countries"`
	Partnerships []string            `json:"partnerships"`
}

type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type DeduplicationSummary struct {
	KeptCount    int          `json:"kept_count"`
	DeletedCount int          `json:"deleted_count"`
	FailedCount  int          `json:"failed_count"`
	Failures     []FailedItem `json:"failures"`
}

type BulkApproveSummary struct {
	SuccessCount int          `json:"success_count"`
	FailureCount int          `json:"failure_count"`
	Failures     []FailedItem `json:"failures"`
}

type RegionMetrics struct {
	Region            string  `json:"region"`
	InterventionCount int     `json:"intervention_count"`
	TotalImpact       float64 `json:"total_impact"`
	AverageImpact     float64 `json:"average_impact"`
	Color             string  `json:"color,omitempty"`
	Radius            float64 `json:"radius"`
}

type LegendEntry struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Color  string  `json:"color,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

type MapMetrics struct {
	Mode             string          `json:"mode"`
	Metric           string          `json:"metric"`
	Metrics          []RegionMetrics `json:"metrics"`
	MaxInterventions int             `json:"max_interventions"`
	MaxImpact        float64         `json:"max_impact"`
	Legend           []LegendEntry   `json:"legend"`
}

type BatchRun struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
