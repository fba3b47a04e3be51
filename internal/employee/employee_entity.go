package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WorkTypeMorning = "MORNING"
	WorkTypeShifts  = "SHIFTS"
)

// Employee is read-only from this service's perspective; rows are owned by
// the employee-management system.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	FullName     string     `gorm:"type:varchar(255);not null"`
	WorkType     string     `gorm:"type:varchar(20);not null;default:'MORNING'"`
	IsActive     bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
