package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppliesToAll         = "ALL"
	AppliesToMorningOnly = "MORNING_ONLY"
	AppliesToCustom      = "CUSTOM"
)

// Holiday rows are maintained by the holiday-calendar collaborator and
// consumed read-only here. AppliesTo decides which work types the holiday
// restricts.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Date      time.Time `gorm:"type:date;not null;index"`
	AppliesTo string    `gorm:"type:varchar(20);not null;default:'ALL'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Restricts reports whether this holiday blocks absence recording for the
// given work type. Shift workers are never blocked by holidays.
func (h *Holiday) Restricts(workType string) bool {
	if workType != "MORNING" {
		return false
	}
	return h.AppliesTo == AppliesToAll || h.AppliesTo == AppliesToMorningOnly
}
