package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-absensi/internal/eligibility"
	"go-absensi/internal/employee"
	"go-absensi/internal/leave"
	"go-absensi/internal/rbac"
	reporterrors "go-absensi/internal/report/errors"
	"go-absensi/internal/shared/apperror"
	"go-absensi/internal/shared/dateonly"
	"go-absensi/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	GetOrCreateReport(ctx context.Context, officerID string, date time.Time) (*ReportDetail, error)
	AddAbsence(ctx context.Context, reportID, officerID, employeeID string) (*AbsenceItem, error)
	RemoveAbsence(ctx context.Context, reportID, absenceID, officerID string) error
	Submit(ctx context.Context, reportID, officerID string) (*ReportDetail, error)
	ListForDate(ctx context.Context, userID string, date time.Time) ([]ReportSummary, error)
	CleanupLeaveConflicts(ctx context.Context, date time.Time) (int64, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	employees   employee.Repository
	users       user.Repository
	leaves      leave.Repository
	eligibility eligibility.Service
	rbac        rbac.Service
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	users user.Repository,
	leaves leave.Repository,
	eligibilityService eligibility.Service,
	rbacService rbac.Service,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		employees:   employees,
		users:       users,
		leaves:      leaves,
		eligibility: eligibilityService,
		rbac:        rbacService,
		logger:      zap.L().Named("report.service"),
	}
}

// GetOrCreateReport returns the officer's report for date, creating a DRAFT
// one when none exists and the day is still open. A locked day still allows
// fetching an existing report for read-only viewing. Every fetch runs the
// retroactive leave-conflict cleanup on open days.
func (s *service) GetOrCreateReport(ctx context.Context, officerID string, date time.Time) (*ReportDetail, error) {
	day := dateonly.Of(date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	locked, err := qtx.IsDateLocked(ctx, day)
	if err != nil {
		return nil, err
	}

	rep, err := qtx.FindReportByOwnerDate(ctx, officerID, day)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		if locked {
			s.logger.Warn("report creation blocked by consolidation lock",
				zap.String("officer_id", officerID),
				zap.String("date", dateonly.Format(day)),
			)
			return nil, reporterrors.ErrDayLocked
		}
		ownerID, err := uuid.Parse(officerID)
		if err != nil {
			return nil, apperror.InvalidField("officer_id")
		}
		rep = &AbsenceReport{
			ID:         uuid.New(),
			ReportDate: day,
			CreatedBy:  ownerID,
			Status:     ReportStatusDraft,
		}
		if err := qtx.CreateReport(ctx, rep); err != nil {
			return nil, mapConstraintError(err)
		}
		s.logger.Info("report created",
			zap.String("report_id", rep.ID.String()),
			zap.String("officer_id", officerID),
			zap.String("date", dateonly.Format(day)),
		)
	}

	if !locked {
		if _, err := s.cleanupLeaveConflictsTx(ctx, qtx, day); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, rep, locked)
}

// AddAbsence runs the full precondition chain in business order, then
// inserts the entry. Editing a submitted report reverts it to DRAFT.
func (s *service) AddAbsence(ctx context.Context, reportID, officerID, employeeID string) (*AbsenceItem, error) {
	rep, err := s.repo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, reporterrors.ErrReportNotFound
	}
	if rep.CreatedBy.String() != officerID {
		return nil, reporterrors.ErrNotReportOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	locked, err := qtx.IsDateLocked(ctx, rep.ReportDate)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, reporterrors.ErrDayLocked
	}

	departments, err := s.rbac.AssignedDepartmentIDs(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if len(departments) == 0 {
		return nil, reporterrors.ErrNoAssignedDepartments
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reporterrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.DepartmentID == nil || !containsString(departments, emp.DepartmentID.String()) {
		return nil, reporterrors.ErrEmployeeOutsideScope
	}
	if !emp.IsActive {
		return nil, reporterrors.ErrEmployeeInactive
	}

	existing, err := qtx.FindRecordedForEmployeeOnDate(ctx, employeeID, rep.ReportDate)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.ReportID != nil && a.ReportID.String() == reportID {
			return nil, reporterrors.ErrEmployeeAlreadyInReport
		}
	}
	if len(existing) > 0 {
		return nil, s.recordedElsewhereError(ctx, existing[0])
	}

	res, err := s.eligibility.ValidateCanAddAbsence(ctx, employeeID, rep.ReportDate)
	if err != nil {
		return nil, err
	}
	if !res.CanAdd {
		s.logger.Warn("absence rejected by eligibility",
			zap.String("report_id", reportID),
			zap.String("employee_id", employeeID),
			zap.String("reason", res.Reason),
		)
		return nil, reporterrors.ErrEligibilityDenied.WithDetails(res.Message)
	}

	absence := &Absence{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		AbsenceDate: rep.ReportDate,
		Status:      AbsenceStatusRecorded,
		ReportID:    &rep.ID,
		RecordedBy:  rep.CreatedBy,
	}
	if err := qtx.CreateAbsence(ctx, absence); err != nil {
		return nil, mapConstraintError(err)
	}

	if rep.Status == ReportStatusSubmitted {
		if err := qtx.UpdateReportStatus(ctx, reportID, ReportStatusDraft, nil); err != nil {
			return nil, err
		}
		s.logger.Info("submitted report reverted to draft on edit",
			zap.String("report_id", reportID),
		)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("absence recorded",
		zap.String("report_id", reportID),
		zap.String("employee_id", employeeID),
		zap.String("date", dateonly.Format(rep.ReportDate)),
	)

	return &AbsenceItem{
		ID:           absence.ID.String(),
		EmployeeID:   absence.EmployeeID.String(),
		EmployeeName: emp.FullName,
		AbsenceDate:  dateonly.Format(absence.AbsenceDate),
		RecordedBy:   absence.RecordedBy.String(),
		CreatedAt:    absence.CreatedAt,
	}, nil
}

func (s *service) RemoveAbsence(ctx context.Context, reportID, absenceID, officerID string) error {
	rep, err := s.repo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if rep == nil {
		return reporterrors.ErrReportNotFound
	}
	if rep.CreatedBy.String() != officerID {
		return reporterrors.ErrNotReportOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	locked, err := qtx.IsDateLocked(ctx, rep.ReportDate)
	if err != nil {
		return err
	}
	if locked {
		return reporterrors.ErrDayLocked
	}

	absence, err := qtx.FindAbsenceByID(ctx, absenceID)
	if err != nil {
		return err
	}
	if absence == nil {
		return reporterrors.ErrAbsenceNotFound
	}
	if absence.ReportID == nil || absence.ReportID.String() != reportID {
		return reporterrors.ErrAbsenceNotInReport
	}

	if err := qtx.DeleteAbsence(ctx, absenceID); err != nil {
		return err
	}
	if rep.Status == ReportStatusSubmitted {
		if err := qtx.UpdateReportStatus(ctx, reportID, ReportStatusDraft, nil); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("absence removed",
		zap.String("report_id", reportID),
		zap.String("absence_id", absenceID),
	)
	return nil
}

func (s *service) Submit(ctx context.Context, reportID, officerID string) (*ReportDetail, error) {
	rep, err := s.repo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, reporterrors.ErrReportNotFound
	}
	if rep.CreatedBy.String() != officerID {
		return nil, reporterrors.ErrNotReportOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	locked, err := qtx.IsDateLocked(ctx, rep.ReportDate)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, reporterrors.ErrDayLocked
	}
	if rep.Status != ReportStatusDraft {
		return nil, reporterrors.ErrAlreadySubmitted
	}

	now := time.Now().UTC()
	if err := qtx.UpdateReportStatus(ctx, reportID, ReportStatusSubmitted, &now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("report submitted",
		zap.String("report_id", reportID),
		zap.String("date", dateonly.Format(rep.ReportDate)),
	)

	rep.Status = ReportStatusSubmitted
	rep.SubmittedAt = &now
	return s.buildDetail(ctx, rep, false)
}

// ListForDate returns all submitted reports for managers, ordered by
// creator name, and the officer's own report otherwise.
func (s *service) ListForDate(ctx context.Context, userID string, date time.Time) ([]ReportSummary, error) {
	day := dateonly.Of(date)

	isManager, err := s.rbac.IsManager(ctx, userID)
	if err != nil {
		return nil, err
	}

	var reports []AbsenceReport
	if isManager {
		reports, err = s.repo.FindReportsByDateStatus(ctx, day, ReportStatusSubmitted)
		if err != nil {
			return nil, err
		}
	} else {
		own, err := s.repo.FindReportByOwnerDate(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		if own != nil {
			reports = []AbsenceReport{*own}
		}
	}

	summaries, err := s.buildSummaries(ctx, reports)
	if err != nil {
		return nil, err
	}
	if isManager {
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].CreatorName < summaries[j].CreatorName
		})
	}
	return summaries, nil
}

// CleanupLeaveConflicts deletes report-linked absences on date for every
// employee whose approved leave now covers it. Locked dates are frozen, so
// the cleanup is a no-op there. Idempotent.
func (s *service) CleanupLeaveConflicts(ctx context.Context, date time.Time) (int64, error) {
	day := dateonly.Of(date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	locked, err := qtx.IsDateLocked(ctx, day)
	if err != nil {
		return 0, err
	}
	if locked {
		return 0, nil
	}

	removed, err := s.cleanupLeaveConflictsTx(ctx, qtx, day)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *service) cleanupLeaveConflictsTx(ctx context.Context, qtx Repository, day time.Time) (int64, error) {
	ids, err := s.leaves.EmployeeIDsOnApprovedLeave(ctx, day)
	if err != nil {
		return 0, err
	}
	removed, err := qtx.DeleteLeaveConflicts(ctx, day, ids)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("leave-conflicting absences removed",
			zap.String("date", dateonly.Format(day)),
			zap.Int64("removed", removed),
		)
	}
	return removed, nil
}

func (s *service) recordedElsewhereError(ctx context.Context, a Absence) error {
	creatorName := "another officer"
	if a.ReportID != nil {
		if other, err := s.repo.FindReportByID(ctx, a.ReportID.String()); err == nil && other != nil {
			if u, err := s.users.FindByID(ctx, other.CreatedBy.String()); err == nil {
				creatorName = u.Name
			}
		}
	}
	return reporterrors.ErrEmployeeRecordedElsewhere.WithDetails(
		fmt.Sprintf("already recorded in the report of %s", creatorName),
	)
}

func (s *service) buildDetail(ctx context.Context, rep *AbsenceReport, locked bool) (*ReportDetail, error) {
	absences, err := s.repo.FindAbsencesByReport(ctx, rep.ID.String())
	if err != nil {
		return nil, err
	}

	employeeIDs := make([]string, 0, len(absences))
	for _, a := range absences {
		employeeIDs = append(employeeIDs, a.EmployeeID.String())
	}
	names := map[string]string{}
	employees, err := s.employees.FindByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		names[e.ID.String()] = e.FullName
	}

	creatorName := ""
	if u, err := s.users.FindByID(ctx, rep.CreatedBy.String()); err == nil {
		creatorName = u.Name
	}

	items := make([]AbsenceItem, 0, len(absences))
	for _, a := range absences {
		items = append(items, AbsenceItem{
			ID:           a.ID.String(),
			EmployeeID:   a.EmployeeID.String(),
			EmployeeName: names[a.EmployeeID.String()],
			AbsenceDate:  dateonly.Format(a.AbsenceDate),
			RecordedBy:   a.RecordedBy.String(),
			CreatedAt:    a.CreatedAt,
		})
	}

	return &ReportDetail{
		ID:          rep.ID.String(),
		ReportDate:  dateonly.Format(rep.ReportDate),
		CreatedBy:   rep.CreatedBy.String(),
		CreatorName: creatorName,
		Status:      rep.Status,
		SubmittedAt: rep.SubmittedAt,
		Locked:      locked,
		Absences:    items,
	}, nil
}

func (s *service) buildSummaries(ctx context.Context, reports []AbsenceReport) ([]ReportSummary, error) {
	if len(reports) == 0 {
		return []ReportSummary{}, nil
	}

	reportIDs := make([]string, 0, len(reports))
	creatorIDs := make([]string, 0, len(reports))
	for _, r := range reports {
		reportIDs = append(reportIDs, r.ID.String())
		creatorIDs = append(creatorIDs, r.CreatedBy.String())
	}

	counts, err := s.repo.CountAbsencesByReport(ctx, reportIDs)
	if err != nil {
		return nil, err
	}
	creators, err := s.users.FindByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(creators))
	for _, u := range creators {
		names[u.ID.String()] = u.Name
	}

	summaries := make([]ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, ReportSummary{
			ID:           r.ID.String(),
			ReportDate:   dateonly.Format(r.ReportDate),
			CreatedBy:    r.CreatedBy.String(),
			CreatorName:  names[r.CreatedBy.String()],
			Status:       r.Status,
			SubmittedAt:  r.SubmittedAt,
			AbsenceCount: counts[r.ID.String()],
		})
	}
	return summaries, nil
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
