package report

import "time"

type GetOrCreateReportRequest struct {
	ReportDate string `json:"report_date" binding:"required"`
}

type AddAbsenceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type AbsenceItem struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	AbsenceDate  string    `json:"absence_date"`
	RecordedBy   string    `json:"recorded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReportDetail struct {
	ID          string        `json:"id"`
	ReportDate  string        `json:"report_date"`
	CreatedBy   string        `json:"created_by"`
	CreatorName string        `json:"creator_name"`
	Status      string        `json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	Locked      bool          `json:"locked"`
	Absences    []AbsenceItem `json:"absences"`
}

type ReportSummary struct {
	ID           string     `json:"id"`
	ReportDate   string     `json:"report_date"`
	CreatedBy    string     `json:"created_by"`
	CreatorName  string     `json:"creator_name"`
	Status       string     `json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	AbsenceCount int64      `json:"absence_count"`
}
