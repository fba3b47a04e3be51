package schedule

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeMonth(ctx context.Context, employeeID string, year, month int) (*WorkSchedule, error)
	Upsert(ctx context.Context, s *WorkSchedule) error
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

// FindByEmployeeMonth returns nil without error when no row exists; callers
// treat a missing schedule as "no schedule", not as a failure.
func (r *repository) FindByEmployeeMonth(ctx context.Context, employeeID string, year, month int) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Where("month = ?", month).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, s *WorkSchedule) error {
	existing, err := r.FindByEmployeeMonth(ctx, s.EmployeeID.String(), s.Year, s.Month)
	if err != nil {
		return err
	}
	if existing != nil {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(s).Error
	}
	return r.db.WithContext(ctx).Create(s).Error
}
