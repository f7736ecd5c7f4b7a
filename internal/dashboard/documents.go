package dashboard

import (
	"slices"
	"time"
)

// Document names. Each document is stored as <prefix>/<name>.json.
const (
	DocValidation   = "validation"
	DocControlMeta  = "control_meta"
	DocParameters   = "parameters"
	DocSPC          = "spc"
	DocOOCBreakdown = "ooc_breakdown"
)

// Documents lists every dashboard document in sync order.
var Documents = []string{
	DocValidation,
	DocControlMeta,
	DocParameters,
	DocSPC,
	DocOOCBreakdown,
}

// Known reports whether name is a dashboard document.
func Known(name string) bool {
	return slices.Contains(Documents, name)
}

// Validation status labels.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Validation summarizes dataset health.
type Validation struct {
	RowCount          int               `json:"row_count"`
	ColumnCount       int               `json:"column_count"`
	MissingValues     map[string]int    `json:"missing_values"`
	DataTypes         map[string]string `json:"data_types"`
	ValidationStatus  string            `json:"validation_status"`
	LastValidated     time.Time         `json:"last_validated"`
	QualityScore      float64           `json:"quality_score"`
	AnomaliesDetected int               `json:"anomalies_detected"`
	DuplicateRows     int               `json:"duplicate_rows"`
	ValidationIssues  *IssueCounts      `json:"validation_issues,omitempty"`
	Error             string            `json:"error,omitempty"`
}

// IssueCounts is the number of validation issues per category.
type IssueCounts struct {
	MissingIssues int `json:"missing_issues"`
	DTypeIssues   int `json:"dtype_issues"`
	RuleIssues    int `json:"rule_issues"`
}

// Control room status labels.
const (
	StateActive  = "active"
	StateWarning = "warning"
	StateError   = "error"
)

// System health labels.
const (
	HealthGood     = "good"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// ControlMeta is the operational metadata shown in the control room.
// Most fields come from the SyntheticMetricsProvider.
type ControlMeta struct {
	OperatorID        string    `json:"operator_id"`
	BatchesToday      int       `json:"batches_today"`
	LastUpdate        time.Time `json:"last_update"`
	Status            string    `json:"status"`
	TotalProcessed    int       `json:"total_processed"`
	SuccessRate       float64   `json:"success_rate"`
	AvgProcessingTime float64   `json:"avg_processing_time"`
	Alerts            int       `json:"alerts"`
	SystemHealth      string    `json:"system_health"`
	DriftAlerts24h    int       `json:"drift_alerts_24h"`
	OOCPercent        float64   `json:"ooc_percent"`
	Queue             int       `json:"queue"`
	TimeToCompletion  float64   `json:"time_to_completion"`
}

// Parameter is one row of the per-column quality table. Spark entries are
// null where the source cell is null.
type Parameter struct {
	Name  string     `json:"name"`
	Spark []*float64 `json:"spark"`
	OOC   float64    `json:"ooc"`
	Pass  bool       `json:"pass"`
}

// SPC is a statistical process control series with its control limits.
type SPC struct {
	Batch []int     `json:"batch"`
	Value []float64 `json:"value"`
	Mean  float64   `json:"mean"`
	UCL   float64   `json:"ucl"`
	LCL   float64   `json:"lcl"`
}

// OOCBreakdown holds out-of-control percentages as parallel arrays.
type OOCBreakdown struct {
	Parameter []string  `json:"parameter"`
	OOC       []float64 `json:"ooc"`
}

// Report is the outcome of SyncAll. Documents synced before a failure are
// kept; they are not rolled back.
type Report struct {
	Validation    *Validation   `json:"validation,omitempty"`
	ControlMeta   *ControlMeta  `json:"control_meta,omitempty"`
	Parameters    []Parameter   `json:"parameters"`
	SPC           *SPC          `json:"spc,omitempty"`
	OOCBreakdown  *OOCBreakdown `json:"ooc_breakdown,omitempty"`
	SyncTimestamp time.Time     `json:"sync_timestamp"`
	Status        string        `json:"status"`
	Error         string        `json:"error,omitempty"`
}

// Sync outcome labels.
const (
	SyncSuccess = "success"
	SyncError   = "error"
)

// Succeeded reports whether every document was synced.
func (r *Report) Succeeded() bool {
	return r.Status == SyncSuccess
}
