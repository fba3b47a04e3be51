package holiday

import (
	"context"
	"database/sql"
	"time"

	"go-absensi/internal/shared/dateonly"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindInRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
	FindOnDate(ctx context.Context, date time.Time) (*Holiday, error)
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

func (r *repository) FindInRange(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ?", dateonly.Format(from)).
		Where("date <= ?", dateonly.Format(to)).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// FindOnDate returns nil without error when the date has no holiday.
func (r *repository) FindOnDate(ctx context.Context, date time.Time) (*Holiday, error) {
	rows, err := r.FindInRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
