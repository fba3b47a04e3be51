package consolidation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-absensi/internal/report"
	"go-absensi/internal/shared/dateonly"

	"gorm.io/gorm"
)

//go:generate mockgen -source=consolidation_repo.go -destination=mock/consolidation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *DailyConsolidation) error
	FindByDate(ctx context.Context, date time.Time) (*DailyConsolidation, error)
	DeleteByDate(ctx context.Context, date time.Time) (int64, error)
	ExistsForDate(ctx context.Context, date time.Time) (bool, error)
	RevertSubmittedReports(ctx context.Context, date time.Time) (int64, error)
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

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, _ := r.db.DB()
	return sqlDB
}

func (r *repository) Create(ctx context.Context, c *DailyConsolidation) error {
	query := `
        INSERT INTO daily_consolidations (id, report_date, approved_by, approved_at, created_at)
        VALUES ($1, $2, $3, $4, NOW())
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		c.ID, dateonly.Format(c.ReportDate), c.ApprovedBy, c.ApprovedAt,
	)
	return err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) (*DailyConsolidation, error) {
	var c DailyConsolidation
	err := r.db.WithContext(ctx).
		Where("report_date = ?", dateonly.Format(date)).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) DeleteByDate(ctx context.Context, date time.Time) (int64, error) {
	res, err := r.execer().ExecContext(
		ctx,
		`DELETE FROM daily_consolidations WHERE report_date = $1`,
		dateonly.Format(date),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExistsForDate goes through execer so the lock check shares the caller's
// transaction.
func (r *repository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.execer().QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_consolidations WHERE report_date = $1)`,
		dateonly.Format(date),
	).Scan(&exists)
	return exists, err
}

// RevertSubmittedReports reopens every submitted report of the date.
func (r *repository) RevertSubmittedReports(ctx context.Context, date time.Time) (int64, error) {
	query := `
        UPDATE absence_reports
        SET status = $2, submitted_at = NULL, updated_at = NOW()
        WHERE report_date = $1 AND status = $3
    `
	res, err := r.execer().ExecContext(
		ctx, query,
		dateonly.Format(date), report.ReportStatusDraft, report.ReportStatusSubmitted,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
