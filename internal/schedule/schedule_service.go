package schedule

import (
	"context"
	"time"

	scheduleerrors "go-absensi/internal/schedule/errors"
	"go-absensi/internal/shared/dateonly"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	WorkDaysForMonth(ctx context.Context, employeeID string, year, month int) (WorkDaysResponse, error)
	ApplyMonthlyPattern(ctx context.Context, req ApplyPatternRequest) ([]ApplyPatternOutcome, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) WorkDaysForMonth(ctx context.Context, employeeID string, year, month int) (WorkDaysResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return WorkDaysResponse{}, scheduleerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindByEmployeeMonth(ctx, employeeID, year, month)
	if err != nil {
		s.logger.Error("work days lookup failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return WorkDaysResponse{}, err
	}
	if row == nil {
		return WorkDaysResponse{}, scheduleerrors.ErrScheduleNotFound
	}

	dates, count := WorkDaysInMonth(year, time.Month(month), row)
	resp := WorkDaysResponse{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Dates:      make([]string, len(dates)),
		Count:      count,
	}
	for i, d := range dates {
		resp.Dates[i] = dateonly.Format(d)
	}
	return resp, nil
}

// ApplyMonthlyPattern writes the same monthly pattern for a batch of
// employees. One outcome per employee; a bad row never aborts the rest.
func (s *service) ApplyMonthlyPattern(ctx context.Context, req ApplyPatternRequest) ([]ApplyPatternOutcome, error) {
	var cycleStart *time.Time
	if req.CycleStartDate != nil && *req.CycleStartDate != "" {
		d, err := dateonly.Parse(*req.CycleStartDate)
		if err != nil {
			return nil, scheduleerrors.ErrInvalidCycleStart
		}
		cycleStart = &d
	}
	if req.ShiftPattern != nil && RotationDivisor(*req.ShiftPattern) > 0 && cycleStart == nil {
		return nil, scheduleerrors.ErrCycleStartRequired
	}

	outcomes := make([]ApplyPatternOutcome, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		employeeUUID, err := uuid.Parse(id)
		if err != nil {
			outcomes = append(outcomes, ApplyPatternOutcome{EmployeeID: id, Error: scheduleerrors.ErrInvalidEmployeeID.Message})
			continue
		}

		row := &WorkSchedule{
			ID:             uuid.New(),
			EmployeeID:     employeeUUID,
			Year:           req.Year,
			Month:          req.Month,
			WorkType:       req.WorkType,
			ShiftPattern:   req.ShiftPattern,
			DaysOfWeek:     FormatDayIndexes(req.DaysOfWeek),
			CycleStartDate: cycleStart,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			BreakStart:     req.BreakStart,
			BreakEnd:       req.BreakEnd,
			Status:         StatusPending,
		}

		if err := s.repo.Upsert(ctx, row); err != nil {
			s.logger.Warn("apply pattern failed for employee",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			outcomes = append(outcomes, ApplyPatternOutcome{EmployeeID: id, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, ApplyPatternOutcome{EmployeeID: id, Applied: true})
	}

	s.logger.Info("apply monthly pattern done",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("employees", len(req.EmployeeIDs)),
	)
	return outcomes, nil
}
