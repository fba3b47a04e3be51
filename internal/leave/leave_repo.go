package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-absensi/internal/shared/dateonly"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindApprovedOverlapping(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error)
	EmployeeIDsOnApprovedLeave(ctx context.Context, date time.Time) ([]string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// FindApprovedOverlapping returns the approved leave whose [start_date,
// end_date] contains date, or nil when there is none.
func (r *repository) FindApprovedOverlapping(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error) {
	day := dateonly.Format(date)

	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", day).
		Where("end_date >= ?", day).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// EmployeeIDsOnApprovedLeave lists every employee with an approved leave
// covering date. Used by the retroactive absence cleanup.
func (r *repository) EmployeeIDsOnApprovedLeave(ctx context.Context, date time.Time) ([]string, error) {
	day := dateonly.Format(date)

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", day).
		Where("end_date >= ?", day).
		Distinct().
		Pluck("employee_id", &ids).Error
	return ids, err
}
