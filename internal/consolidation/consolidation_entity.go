package consolidation

import (
	"time"

	"github.com/google/uuid"
)

// DailyConsolidation existence is the lock for its calendar day: while the
// row is present, no absence or report mutation for that date is allowed.
type DailyConsolidation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_consolidation_date"`
	ApprovedBy uuid.UUID `gorm:"type:uuid;not null"`
	ApprovedAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time
}

func (DailyConsolidation) TableName() string { return "daily_consolidations" }
