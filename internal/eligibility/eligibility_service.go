package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	eligibilityerrors "go-absensi/internal/eligibility/errors"
	"go-absensi/internal/employee"
	"go-absensi/internal/holiday"
	"go-absensi/internal/leave"
	"go-absensi/internal/schedule"
	"go-absensi/internal/shared/dateonly"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=eligibility_service.go -destination=mock/eligibility_service_mock.go -package=mock
type Service interface {
	ValidateCanAddAbsence(ctx context.Context, employeeID string, date time.Time) (Result, error)
}

type service struct {
	employees employee.Repository
	leaves    leave.Repository
	schedules schedule.Repository
	holidays  holiday.Repository
	logger    *zap.Logger
}

func NewService(
	employees employee.Repository,
	leaves leave.Repository,
	schedules schedule.Repository,
	holidays holiday.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("eligibility.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("eligibility.service")
	}
	return &service{
		employees: employees,
		leaves:    leaves,
		schedules: schedules,
		holidays:  holidays,
		logger:    l,
	}
}

// ValidateCanAddAbsence layers the absence-recording rules in business
// priority order: approved leave first, then rest day, then official
// holiday. A missing schedule row skips the rest-day check entirely.
// The function reads only; it never writes.
func (s *service) ValidateCanAddAbsence(ctx context.Context, employeeID string, date time.Time) (Result, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Result{}, eligibilityerrors.ErrInvalidEmployeeID
	}
	day := dateonly.Of(date)

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, eligibilityerrors.ErrEmployeeNotFound
		}
		return Result{}, err
	}

	overlapping, err := s.leaves.FindApprovedOverlapping(ctx, employeeID, day)
	if err != nil {
		return Result{}, err
	}
	if overlapping != nil {
		s.logger.Debug("absence denied by approved leave",
			zap.String("employee_id", employeeID),
			zap.String("date", dateonly.Format(day)),
		)
		return deny(ReasonLeave, fmt.Sprintf(
			"employee has approved leave from %s to %s",
			dateonly.Format(overlapping.StartDate),
			dateonly.Format(overlapping.EndDate),
		)), nil
	}

	sched, err := s.schedules.FindByEmployeeMonth(ctx, employeeID, day.Year(), int(day.Month()))
	if err != nil {
		return Result{}, err
	}
	if sched != nil && !schedule.ScheduleIsWorkDay(day, sched) {
		s.logger.Debug("absence denied by rest day",
			zap.String("employee_id", employeeID),
			zap.String("date", dateonly.Format(day)),
		)
		return deny(ReasonRestDay, "this date is a rest day under the employee's schedule"), nil
	}

	hol, err := s.holidays.FindOnDate(ctx, day)
	if err != nil {
		return Result{}, err
	}
	if hol != nil && hol.Restricts(emp.WorkType) {
		s.logger.Debug("absence denied by official holiday",
			zap.String("employee_id", employeeID),
			zap.String("date", dateonly.Format(day)),
			zap.String("holiday", hol.Name),
		)
		res := deny(ReasonOfficialHoliday, fmt.Sprintf("this date is an official holiday (%s)", hol.Name))
		res.HolidayName = hol.Name
		return res, nil
	}

	return allow(), nil
}
