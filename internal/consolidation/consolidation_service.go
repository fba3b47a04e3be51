package consolidation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	consolidationerrors "go-absensi/internal/consolidation/errors"
	"go-absensi/internal/employee"
	"go-absensi/internal/events"
	"go-absensi/internal/messaging/kafka"
	"go-absensi/internal/rbac"
	"go-absensi/internal/report"
	reporterrors "go-absensi/internal/report/errors"
	"go-absensi/internal/shared/contextutil"
	"go-absensi/internal/shared/dateonly"
	"go-absensi/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:generate mockgen -source=consolidation_service.go -destination=mock/consolidation_service_mock.go -package=mock
type Service interface {
	DuplicatesForDate(ctx context.Context, date time.Time) ([]DuplicateEmployee, error)
	ResolveDuplicate(ctx context.Context, date time.Time, employeeID string) (*ResolveOutcome, error)
	ResolveAllDuplicates(ctx context.Context, date time.Time) ([]ResolveOutcome, error)
	Approve(ctx context.Context, date time.Time, userID string) (*ConsolidationMeta, error)
	Unapprove(ctx context.Context, date time.Time) error
	IsDateLocked(ctx context.Context, date time.Time) (bool, error)
	ConsolidatedForDate(ctx context.Context, date time.Time) (*ConsolidatedDay, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	reports       report.Repository
	reportService report.Service
	employees     employee.Repository
	users         user.Repository
	outbox        kafka.OutboxRepository
	rbac          rbac.Service
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	reports report.Repository,
	reportService report.Service,
	employees employee.Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	rbacService rbac.Service,
) Service {
	return &service{
		db:            db,
		repo:          repo,
		reports:       reports,
		reportService: reportService,
		employees:     employees,
		users:         users,
		outbox:        outbox,
		rbac:          rbacService,
		logger:        zap.L().Named("consolidation.service"),
	}
}

func (s *service) IsDateLocked(ctx context.Context, date time.Time) (bool, error) {
	return s.repo.ExistsForDate(ctx, dateonly.Of(date))
}

// DuplicatesForDate groups report-linked absences of the date's submitted
// reports by employee; an employee listed by two or more distinct reports
// is a duplicate.
func (s *service) DuplicatesForDate(ctx context.Context, date time.Time) ([]DuplicateEmployee, error) {
	day := dateonly.Of(date)

	submitted, err := s.reports.FindReportsByDateStatus(ctx, day, report.ReportStatusSubmitted)
	if err != nil {
		return nil, err
	}
	if len(submitted) == 0 {
		return []DuplicateEmployee{}, nil
	}

	submittedByID := make(map[string]report.AbsenceReport, len(submitted))
	creatorIDs := make([]string, 0, len(submitted))
	for _, r := range submitted {
		submittedByID[r.ID.String()] = r
		creatorIDs = append(creatorIDs, r.CreatedBy.String())
	}

	absences, err := s.reports.FindRecordedOnDate(ctx, day)
	if err != nil {
		return nil, err
	}

	byEmployee := map[string][]report.Absence{}
	for _, a := range absences {
		if a.ReportID == nil {
			continue
		}
		if _, ok := submittedByID[a.ReportID.String()]; !ok {
			continue
		}
		key := a.EmployeeID.String()
		byEmployee[key] = append(byEmployee[key], a)
	}

	duplicateIDs := make([]string, 0)
	for employeeID, rows := range byEmployee {
		distinct := map[string]struct{}{}
		for _, a := range rows {
			distinct[a.ReportID.String()] = struct{}{}
		}
		if len(distinct) > 1 {
			duplicateIDs = append(duplicateIDs, employeeID)
		}
	}
	if len(duplicateIDs) == 0 {
		return []DuplicateEmployee{}, nil
	}
	sort.Strings(duplicateIDs)

	employeeNames, err := s.employeeNames(ctx, duplicateIDs)
	if err != nil {
		return nil, err
	}
	creatorNames, err := s.userNames(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]DuplicateEmployee, 0, len(duplicateIDs))
	for _, employeeID := range duplicateIDs {
		seen := map[string]struct{}{}
		refs := make([]DuplicateReportRef, 0, 2)
		for _, a := range byEmployee[employeeID] {
			reportID := a.ReportID.String()
			if _, ok := seen[reportID]; ok {
				continue
			}
			seen[reportID] = struct{}{}
			refs = append(refs, DuplicateReportRef{
				ReportID:    reportID,
				CreatorName: creatorNames[submittedByID[reportID].CreatedBy.String()],
			})
		}
		result = append(result, DuplicateEmployee{
			EmployeeID: employeeID,
			FullName:   employeeNames[employeeID],
			Reports:    refs,
		})
	}
	return result, nil
}

// ResolveDuplicate keeps the earliest-created absence for (employee, date)
// and deletes the rest; every report that lost an entry reopens as DRAFT.
func (s *service) ResolveDuplicate(ctx context.Context, date time.Time, employeeID string) (*ResolveOutcome, error) {
	day := dateonly.Of(date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qrepo := s.repo.WithTx(tx)
	qreports := s.reports.WithTx(tx)

	locked, err := qrepo.ExistsForDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, reporterrors.ErrDayLocked
	}

	absences, err := qreports.FindRecordedForEmployeeOnDate(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	if len(absences) < 2 {
		return nil, consolidationerrors.ErrNoDuplicateForEmployee
	}

	// absences come ordered by created_at ascending; index 0 survives
	reverted := make([]string, 0, len(absences)-1)
	for _, a := range absences[1:] {
		if err := qreports.DeleteAbsence(ctx, a.ID.String()); err != nil {
			return nil, err
		}
		if a.ReportID == nil {
			continue
		}
		owner, err := qreports.FindReportByID(ctx, a.ReportID.String())
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.Status == report.ReportStatusSubmitted {
			if err := qreports.UpdateReportStatus(ctx, owner.ID.String(), report.ReportStatusDraft, nil); err != nil {
				return nil, err
			}
			reverted = append(reverted, owner.ID.String())
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("duplicate resolved",
		zap.String("employee_id", employeeID),
		zap.String("date", dateonly.Format(day)),
		zap.Int("removed", len(absences)-1),
		zap.Strings("reverted_reports", reverted),
	)

	return &ResolveOutcome{
		EmployeeID:      employeeID,
		Status:          ResolveStatusResolved,
		Removed:         len(absences) - 1,
		RevertedReports: reverted,
	}, nil
}

// ResolveAllDuplicates resolves every duplicate of the date, one outcome
// per employee. A locked date fails the whole batch up front since every
// item would fail for the same reason.
func (s *service) ResolveAllDuplicates(ctx context.Context, date time.Time) ([]ResolveOutcome, error) {
	day := dateonly.Of(date)

	locked, err := s.repo.ExistsForDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, reporterrors.ErrDayLocked
	}

	duplicates, err := s.DuplicatesForDate(ctx, day)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ResolveOutcome, 0, len(duplicates))
	for _, d := range duplicates {
		outcome, err := s.ResolveDuplicate(ctx, day, d.EmployeeID)
		if err != nil {
			if errors.Is(err, reporterrors.ErrDayLocked) {
				return nil, err
			}
			outcomes = append(outcomes, ResolveOutcome{
				EmployeeID: d.EmployeeID,
				Status:     ResolveStatusFailed,
				Message:    err.Error(),
			})
			continue
		}
		outcomes = append(outcomes, *outcome)
	}
	return outcomes, nil
}

// Approve locks the day: it requires at least one submitted report and no
// remaining duplicates, then creates the daily_consolidations row inside
// the same transaction as the final duplicate scan.
func (s *service) Approve(ctx context.Context, date time.Time, userID string) (*ConsolidationMeta, error) {
	day := dateonly.Of(date)

	isManager, err := s.rbac.IsManager(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		return nil, consolidationerrors.ErrNotManager
	}
	approverID, err := uuid.Parse(userID)
	if err != nil {
		return nil, consolidationerrors.ErrNotManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qrepo := s.repo.WithTx(tx)
	qreports := s.reports.WithTx(tx)

	exists, err := qrepo.ExistsForDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, consolidationerrors.ErrConsolidationExists
	}

	submitted, err := qreports.FindReportsByDateStatus(ctx, day, report.ReportStatusSubmitted)
	if err != nil {
		return nil, err
	}
	if len(submitted) == 0 {
		return nil, consolidationerrors.ErrNothingToConsolidate
	}

	submittedIDs := make(map[string]struct{}, len(submitted))
	for _, r := range submitted {
		submittedIDs[r.ID.String()] = struct{}{}
	}

	absences, err := qreports.FindRecordedOnDate(ctx, day)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	total := 0
	for _, a := range absences {
		if a.ReportID == nil {
			continue
		}
		if _, ok := submittedIDs[a.ReportID.String()]; !ok {
			continue
		}
		total++
		key := a.EmployeeID.String()
		if _, dup := seen[key]; dup {
			return nil, consolidationerrors.ErrDuplicatesRemain
		}
		seen[key] = struct{}{}
	}

	now := time.Now().UTC()
	c := &DailyConsolidation{
		ID:         uuid.New(),
		ReportDate: day,
		ApprovedBy: approverID,
		ApprovedAt: now,
	}
	if err := qrepo.Create(ctx, c); err != nil {
		return nil, mapConsolidationConstraint(err)
	}

	payload, err := json.Marshal(events.DayConsolidatedEvent{
		EventType:    events.EventDayConsolidated,
		ReportDate:   dateonly.Format(day),
		ApprovedBy:   userID,
		ReportCount:  len(submitted),
		AbsenceCount: total,
		OccurredAt:   now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "daily_consolidation",
		AggregateID:   dateonly.Format(day),
		EventType:     events.EventDayConsolidated,
		Topic:         events.DayLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("day consolidated",
		zap.String("date", dateonly.Format(day)),
		zap.String("approved_by", userID),
		zap.Int("reports", len(submitted)),
		zap.Int("absences", total),
	)

	return &ConsolidationMeta{
		ID:         c.ID.String(),
		ReportDate: dateonly.Format(day),
		ApprovedBy: userID,
		ApprovedAt: now,
	}, nil
}

// Unapprove removes the lock and reopens every submitted report of the
// date as DRAFT.
func (s *service) Unapprove(ctx context.Context, date time.Time) error {
	day := dateonly.Of(date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qrepo := s.repo.WithTx(tx)

	removed, err := qrepo.DeleteByDate(ctx, day)
	if err != nil {
		return err
	}
	if removed == 0 {
		return consolidationerrors.ErrNoConsolidation
	}

	reverted, err := qrepo.RevertSubmittedReports(ctx, day)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(events.DayReopenedEvent{
		EventType:  events.EventDayReopened,
		ReportDate: dateonly.Format(day),
		OccurredAt: now,
	})
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "daily_consolidation",
		AggregateID:   dateonly.Format(day),
		EventType:     events.EventDayReopened,
		Topic:         events.DayLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("day reopened",
		zap.String("date", dateonly.Format(day)),
		zap.Int64("reverted_reports", reverted),
	)
	return nil
}

// ConsolidatedForDate runs the leave-conflict cleanup on open days, then
// returns the consolidation metadata plus the deduplicated absence set,
// sorted by employee name.
func (s *service) ConsolidatedForDate(ctx context.Context, date time.Time) (*ConsolidatedDay, error) {
	day := dateonly.Of(date)

	meta, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	locked := meta != nil

	if !locked {
		if _, err := s.reportService.CleanupLeaveConflicts(ctx, day); err != nil {
			return nil, err
		}
	}

	absences, err := s.reports.FindRecordedOnDate(ctx, day)
	if err != nil {
		return nil, err
	}

	// Dedupe by employee, keeping the earliest-created row
	seen := map[string]struct{}{}
	kept := make([]report.Absence, 0, len(absences))
	employeeIDs := make([]string, 0, len(absences))
	for _, a := range absences {
		key := a.EmployeeID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, a)
		employeeIDs = append(employeeIDs, key)
	}

	names, err := s.employeeNames(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	items := make([]report.AbsenceItem, 0, len(kept))
	for _, a := range kept {
		items = append(items, report.AbsenceItem{
			ID:           a.ID.String(),
			EmployeeID:   a.EmployeeID.String(),
			EmployeeName: names[a.EmployeeID.String()],
			AbsenceDate:  dateonly.Format(a.AbsenceDate),
			RecordedBy:   a.RecordedBy.String(),
			CreatedAt:    a.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EmployeeName < items[j].EmployeeName
	})

	result := &ConsolidatedDay{
		ReportDate: dateonly.Format(day),
		Locked:     locked,
		Absences:   items,
	}
	if meta != nil {
		result.Consolidation = &ConsolidationMeta{
			ID:         meta.ID.String(),
			ReportDate: dateonly.Format(meta.ReportDate),
			ApprovedBy: meta.ApprovedBy.String(),
			ApprovedAt: meta.ApprovedAt,
		}
	}
	return result, nil
}

func (s *service) employeeNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	rows, err := s.employees.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range rows {
		names[e.ID.String()] = e.FullName
	}
	return names, nil
}

func (s *service) userNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	rows, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		names[u.ID.String()] = u.Name
	}
	return names, nil
}

func mapConsolidationConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_consolidation_date" {
		return consolidationerrors.ErrConsolidationExists
	}
	return err
}
