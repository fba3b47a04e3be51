package report

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-absensi/internal/shared/dateonly"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateReport(ctx context.Context, r *AbsenceReport) error
	FindReportByID(ctx context.Context, id string) (*AbsenceReport, error)
	FindReportByOwnerDate(ctx context.Context, ownerID string, date time.Time) (*AbsenceReport, error)
	FindReportsByDateStatus(ctx context.Context, date time.Time, status string) ([]AbsenceReport, error)
	UpdateReportStatus(ctx context.Context, id, status string, submittedAt *time.Time) error

	CreateAbsence(ctx context.Context, a *Absence) error
	DeleteAbsence(ctx context.Context, id string) error
	FindAbsenceByID(ctx context.Context, id string) (*Absence, error)
	FindAbsencesByReport(ctx context.Context, reportID string) ([]Absence, error)
	FindRecordedForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]Absence, error)
	FindRecordedOnDate(ctx context.Context, date time.Time) ([]Absence, error)
	CountAbsencesByReport(ctx context.Context, reportIDs []string) (map[string]int64, error)
	DeleteLeaveConflicts(ctx context.Context, date time.Time, employeeIDs []string) (int64, error)

	IsDateLocked(ctx context.Context, date time.Time) (bool, error)
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

// execer routes writes and lock checks through the transaction when one is
// open; reads that tolerate snapshot staleness stay on the gorm handle.
func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, _ := r.db.DB()
	return sqlDB
}

func (r *repository) CreateReport(ctx context.Context, rep *AbsenceReport) error {
	query := `
        INSERT INTO absence_reports (id, report_date, created_by, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		rep.ID, dateonly.Format(rep.ReportDate), rep.CreatedBy, rep.Status,
	)
	return err
}

func (r *repository) FindReportByID(ctx context.Context, id string) (*AbsenceReport, error) {
	var rep AbsenceReport
	err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) FindReportByOwnerDate(ctx context.Context, ownerID string, date time.Time) (*AbsenceReport, error) {
	var rep AbsenceReport
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Where("report_date = ?", dateonly.Format(date)).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) FindReportsByDateStatus(ctx context.Context, date time.Time, status string) ([]AbsenceReport, error) {
	var rows []AbsenceReport
	err := r.db.WithContext(ctx).
		Where("report_date = ?", dateonly.Format(date)).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateReportStatus(ctx context.Context, id, status string, submittedAt *time.Time) error {
	query := `
        UPDATE absence_reports
        SET status = $2, submitted_at = $3, updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.execer().ExecContext(ctx, query, id, status, submittedAt)
	return err
}

func (r *repository) CreateAbsence(ctx context.Context, a *Absence) error {
	query := `
        INSERT INTO absences (id, employee_id, absence_date, status, report_id, recorded_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.EmployeeID, dateonly.Format(a.AbsenceDate), a.Status, a.ReportID, a.RecordedBy,
	)
	return err
}

func (r *repository) DeleteAbsence(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx, `DELETE FROM absences WHERE id = $1`, id)
	return err
}

func (r *repository) FindAbsenceByID(ctx context.Context, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAbsencesByReport(ctx context.Context, reportID string) ([]Absence, error) {
	var rows []Absence
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Where("status = ?", AbsenceStatusRecorded).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindRecordedForEmployeeOnDate covers report-linked rows only; legacy
// direct entries (report_id IS NULL) never collide with report entries.
func (r *repository) FindRecordedForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]Absence, error) {
	var rows []Absence
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("absence_date = ?", dateonly.Format(date)).
		Where("status = ?", AbsenceStatusRecorded).
		Where("report_id IS NOT NULL").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindRecordedOnDate(ctx context.Context, date time.Time) ([]Absence, error) {
	var rows []Absence
	err := r.db.WithContext(ctx).
		Where("absence_date = ?", dateonly.Format(date)).
		Where("status = ?", AbsenceStatusRecorded).
		Where("report_id IS NOT NULL").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAbsencesByReport(ctx context.Context, reportIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ReportID string
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Select("report_id::text AS report_id, COUNT(*) AS total").
		Where("report_id IN ?", reportIDs).
		Where("status = ?", AbsenceStatusRecorded).
		Group("report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, x := range rows {
		counts[x.ReportID] = x.Total
	}
	return counts, nil
}

// DeleteLeaveConflicts removes report-linked RECORDED absences on date for
// the given employees. Backs the retroactive cleanup after late leave
// approvals.
func (r *repository) DeleteLeaveConflicts(ctx context.Context, date time.Time, employeeIDs []string) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}

	query := `
        DELETE FROM absences
        WHERE absence_date = $1
          AND status = $2
          AND report_id IS NOT NULL
          AND employee_id = ANY($3)
    `
	res, err := r.execer().ExecContext(ctx, query, dateonly.Format(date), AbsenceStatusRecorded, employeeIDs)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsDateLocked goes through execer so the check runs inside the caller's
// transaction when one is open.
func (r *repository) IsDateLocked(ctx context.Context, date time.Time) (bool, error) {
	var locked bool
	err := r.execer().QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_consolidations WHERE report_date = $1)`,
		dateonly.Format(date),
	).Scan(&locked)
	return locked, err
}
