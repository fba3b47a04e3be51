package consolidation

import (
	"time"

	"go-absensi/internal/report"
)

type DuplicateReportRef struct {
	ReportID    string `json:"report_id"`
	CreatorName string `json:"creator_name"`
}

type DuplicateEmployee struct {
	EmployeeID string               `json:"employee_id"`
	FullName   string               `json:"full_name"`
	Reports    []DuplicateReportRef `json:"reports"`
}

const (
	ResolveStatusResolved = "RESOLVED"
	ResolveStatusFailed   = "FAILED"
)

// ResolveOutcome is the per-employee result of a batch resolution; one
// failing employee does not abort the rest.
type ResolveOutcome struct {
	EmployeeID      string   `json:"employee_id"`
	Status          string   `json:"status"`
	Removed         int      `json:"removed"`
	RevertedReports []string `json:"reverted_reports,omitempty"`
	Message         string   `json:"message,omitempty"`
}

type ConsolidationMeta struct {
	ID         string    `json:"id"`
	ReportDate string    `json:"report_date"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

// ConsolidatedDay is the canonical read model for a date regardless of
// lock state.
type ConsolidatedDay struct {
	ReportDate    string               `json:"report_date"`
	Locked        bool                 `json:"locked"`
	Consolidation *ConsolidationMeta   `json:"consolidation,omitempty"`
	Absences      []report.AbsenceItem `json:"absences"`
}
