package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	WorkTypeMorning = "MORNING"
	WorkTypeShifts  = "SHIFTS"

	PatternFixed = "FIXED"
	Pattern1x1   = "1x1"
	Pattern1x2   = "1x2"
	Pattern1x3   = "1x3"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
)

// WorkSchedule is one row per (employee, year, month). DaysOfWeek holds
// domain weekday indices (Saturday=0 .. Friday=6) as a comma-separated list.
type WorkSchedule struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_employee_month"`
	Year           int        `gorm:"not null;uniqueIndex:uq_schedule_employee_month"`
	Month          int        `gorm:"not null;check:month >= 1 AND month <= 12;uniqueIndex:uq_schedule_employee_month"`
	WorkType       string     `gorm:"type:varchar(20);not null"`
	ShiftPattern   *string    `gorm:"type:varchar(10)"`
	DaysOfWeek     string     `gorm:"type:varchar(30)"`
	CycleStartDate *time.Time `gorm:"type:date"`
	StartTime      string     `gorm:"type:varchar(5)"`
	EndTime        string     `gorm:"type:varchar(5)"`
	BreakStart     *string    `gorm:"type:varchar(5)"`
	BreakEnd       *string    `gorm:"type:varchar(5)"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}

// DayIndexes parses DaysOfWeek into domain weekday indices, skipping
// anything malformed or out of range.
func (s *WorkSchedule) DayIndexes() []int {
	if s.DaysOfWeek == "" {
		return nil
	}
	parts := strings.Split(s.DaysOfWeek, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		out = append(out, n)
	}
	return out
}

func FormatDayIndexes(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
