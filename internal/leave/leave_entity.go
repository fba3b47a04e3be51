package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

// LeaveRequest rows are owned by the leave-management collaborator. This
// service only ever reads APPROVED rows to veto absence recording.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	LeaveType  string    `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate  time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
