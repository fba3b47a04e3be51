package eligibility_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-absensi/internal/eligibility"
	eligibilityerrors "go-absensi/internal/eligibility/errors"
	"go-absensi/internal/employee"
	"go-absensi/internal/holiday"
	"go-absensi/internal/leave"
	"go-absensi/internal/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) FindByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeLeaveRepo struct {
	overlapFn func(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error)
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) leave.Repository { return f }
func (f *fakeLeaveRepo) FindApprovedOverlapping(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
	return f.overlapFn(ctx, employeeID, date)
}
func (f *fakeLeaveRepo) EmployeeIDsOnApprovedLeave(ctx context.Context, date time.Time) ([]string, error) {
	return nil, nil
}

type fakeScheduleRepo struct {
	findFn func(ctx context.Context, employeeID string, year, month int) (*schedule.WorkSchedule, error)
}

func (f *fakeScheduleRepo) WithTx(tx *sql.Tx) schedule.Repository { return f }
func (f *fakeScheduleRepo) FindByEmployeeMonth(ctx context.Context, employeeID string, year, month int) (*schedule.WorkSchedule, error) {
	return f.findFn(ctx, employeeID, year, month)
}
func (f *fakeScheduleRepo) Upsert(ctx context.Context, s *schedule.WorkSchedule) error { return nil }

type fakeHolidayRepo struct {
	onDateFn func(ctx context.Context, date time.Time) (*holiday.Holiday, error)
}

func (f *fakeHolidayRepo) WithTx(tx *sql.Tx) holiday.Repository { return f }
func (f *fakeHolidayRepo) FindInRange(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	return nil, nil
}
func (f *fakeHolidayRepo) FindOnDate(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
	return f.onDateFn(ctx, date)
}

type validatorDeps struct {
	employees *fakeEmployeeRepo
	leaves    *fakeLeaveRepo
	schedules *fakeScheduleRepo
	holidays  *fakeHolidayRepo
	service   eligibility.Service
}

func setupValidator(workType string) *validatorDeps {
	d := &validatorDeps{
		employees: &fakeEmployeeRepo{},
		leaves:    &fakeLeaveRepo{},
		schedules: &fakeScheduleRepo{},
		holidays:  &fakeHolidayRepo{},
	}
	d.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return &employee.Employee{ID: uuid.MustParse(id), FullName: "Test Employee", WorkType: workType, IsActive: true}, nil
	}
	d.leaves.overlapFn = func(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
		return nil, nil
	}
	d.schedules.findFn = func(ctx context.Context, employeeID string, year, month int) (*schedule.WorkSchedule, error) {
		return nil, nil
	}
	d.holidays.onDateFn = func(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
		return nil, nil
	}
	d.service = eligibility.NewService(d.employees, d.leaves, d.schedules, d.holidays)
	return d
}

func TestValidate_EmployeeNotFound(t *testing.T) {
	deps := setupValidator(employee.WorkTypeMorning)
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Now())
	assert.ErrorIs(t, err, eligibilityerrors.ErrEmployeeNotFound)
}

func TestValidate_ApprovedLeaveWins(t *testing.T) {
	deps := setupValidator(employee.WorkTypeMorning)
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	deps.leaves.overlapFn = func(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
		return &leave.LeaveRequest{StartDate: start, EndDate: end, Status: leave.StatusApproved}, nil
	}
	// Even with a holiday on the same date, leave must fire first
	deps.holidays.onDateFn = func(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
		return &holiday.Holiday{Name: "Founding Day", AppliesTo: holiday.AppliesToAll}, nil
	}

	res, err := deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.False(t, res.CanAdd)
	assert.Equal(t, eligibility.ReasonLeave, res.Reason)
}

func TestValidate_RestDay(t *testing.T) {
	deps := setupValidator(employee.WorkTypeMorning)
	deps.schedules.findFn = func(ctx context.Context, employeeID string, year, month int) (*schedule.WorkSchedule, error) {
		// Works Sundays only (domain index 1)
		return &schedule.WorkSchedule{WorkType: schedule.WorkTypeMorning, DaysOfWeek: "1"}, nil
	}

	// 2024-06-03 is a Monday -> rest day
	res, err := deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.False(t, res.CanAdd)
	assert.Equal(t, eligibility.ReasonRestDay, res.Reason)

	// 2024-06-02 is a Sunday -> allowed
	res, err = deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, res.CanAdd)
}

func TestValidate_MissingScheduleSkipsRestDayCheck(t *testing.T) {
	deps := setupValidator(employee.WorkTypeMorning)
	// No schedule row at all -> not a block
	res, err := deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Now())
	assert.NoError(t, err)
	assert.True(t, res.CanAdd)
}

func TestValidate_HolidayBlocksMorningOnly(t *testing.T) {
	date := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	morning := setupValidator(employee.WorkTypeMorning)
	morning.holidays.onDateFn = func(ctx context.Context, d time.Time) (*holiday.Holiday, error) {
		return &holiday.Holiday{Name: "National Day", AppliesTo: holiday.AppliesToAll}, nil
	}
	res, err := morning.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), date)
	assert.NoError(t, err)
	assert.False(t, res.CanAdd)
	assert.Equal(t, eligibility.ReasonOfficialHoliday, res.Reason)
	assert.Equal(t, "National Day", res.HolidayName)

	shifts := setupValidator(employee.WorkTypeShifts)
	shifts.holidays.onDateFn = func(ctx context.Context, d time.Time) (*holiday.Holiday, error) {
		return &holiday.Holiday{Name: "National Day", AppliesTo: holiday.AppliesToAll}, nil
	}
	res, err = shifts.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), date)
	assert.NoError(t, err)
	assert.True(t, res.CanAdd)
}

func TestValidate_CustomHolidayDoesNotBlock(t *testing.T) {
	deps := setupValidator(employee.WorkTypeMorning)
	deps.holidays.onDateFn = func(ctx context.Context, d time.Time) (*holiday.Holiday, error) {
		return &holiday.Holiday{Name: "Branch Event", AppliesTo: holiday.AppliesToCustom}, nil
	}

	res, err := deps.service.ValidateCanAddAbsence(context.Background(), uuid.NewString(), time.Now())
	assert.NoError(t, err)
	assert.True(t, res.CanAdd)
}
