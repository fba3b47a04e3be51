package report

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusDraft     = "DRAFT"
	ReportStatusSubmitted = "SUBMITTED"

	AbsenceStatusRecorded  = "RECORDED"
	AbsenceStatusCancelled = "CANCELLED"
)

// AbsenceReport is one officer's set of absence entries for one calendar
// date. There is at most one per (created_by, report_date).
type AbsenceReport struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportDate  time.Time  `gorm:"type:date;not null;uniqueIndex:uq_report_owner_date"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_report_owner_date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AbsenceReport) TableName() string { return "absence_reports" }

// Absence rows with a nil ReportID predate the report workflow and are
// left untouched by it. The partial unique index uq_absence_employee_date
// covers RECORDED rows with a report only.
type Absence struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	AbsenceDate time.Time  `gorm:"type:date;not null;index"`
	Status      string     `gorm:"type:varchar(20);not null;default:'RECORDED'"`
	ReportID    *uuid.UUID `gorm:"type:uuid;index"`
	RecordedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (Absence) TableName() string { return "absences" }
