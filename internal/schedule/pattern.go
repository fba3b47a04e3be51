package schedule

import (
	"time"

	"go-absensi/internal/shared/dateonly"
)

// DomainWeekday maps Go's weekday (Sunday=0..Saturday=6) to the domain
// scheme where Saturday=0 .. Friday=6.
func DomainWeekday(date time.Time) int {
	return (int(date.Weekday()) + 1) % 7
}

// RotationDivisor returns the cycle length for a rotating pattern, or 0 when
// the pattern does not rotate.
func RotationDivisor(pattern string) int {
	switch pattern {
	case Pattern1x1:
		return 2
	case Pattern1x2:
		return 3
	case Pattern1x3:
		return 4
	default:
		return 0
	}
}

// IsWorkDay decides whether date is a work day under the given schedule
// definition. It is pure: no clock, no storage.
//
// MORNING employees and FIXED shift workers work on their listed weekdays.
// Rotating shift workers (1x1, 1x2, 1x3) work every divisor-th day counted
// from cycleStart; days before cycleStart are never work days. Any other
// combination means "no usable schedule" and is treated as a rest day.
func IsWorkDay(date time.Time, workType string, shiftPattern *string, daysOfWeek []int, cycleStart *time.Time) bool {
	pattern := ""
	if shiftPattern != nil {
		pattern = *shiftPattern
	}

	if workType == WorkTypeMorning || (workType == WorkTypeShifts && pattern == PatternFixed) {
		wd := DomainWeekday(date)
		for _, d := range daysOfWeek {
			if d == wd {
				return true
			}
		}
		return false
	}

	if workType == WorkTypeShifts && cycleStart != nil {
		divisor := RotationDivisor(pattern)
		if divisor == 0 {
			return false
		}
		dayIndex := dateonly.DaysBetween(*cycleStart, date)
		return dayIndex >= 0 && dayIndex%divisor == 0
	}

	return false
}

// ScheduleIsWorkDay applies IsWorkDay to a stored row.
func ScheduleIsWorkDay(date time.Time, s *WorkSchedule) bool {
	return IsWorkDay(date, s.WorkType, s.ShiftPattern, s.DayIndexes(), s.CycleStartDate)
}

// WorkDaysInMonth enumerates every calendar date in (year, month) that is a
// work day under s. Fixed-type schedules filter the month by weekday;
// rotating schedules walk forward from the cycle start in divisor steps and
// keep the dates landing inside the month.
func WorkDaysInMonth(year int, month time.Month, s *WorkSchedule) ([]time.Time, int) {
	first, last := dateonly.MonthBounds(year, month)

	pattern := ""
	if s.ShiftPattern != nil {
		pattern = *s.ShiftPattern
	}

	if s.WorkType == WorkTypeShifts && RotationDivisor(pattern) > 0 {
		if s.CycleStartDate == nil {
			return nil, 0
		}
		divisor := RotationDivisor(pattern)
		var dates []time.Time
		for d := dateonly.Of(*s.CycleStartDate); !d.After(last); d = d.AddDate(0, 0, divisor) {
			if !d.Before(first) {
				dates = append(dates, d)
			}
		}
		return dates, len(dates)
	}

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if ScheduleIsWorkDay(d, s) {
			dates = append(dates, d)
		}
	}
	return dates, len(dates)
}
