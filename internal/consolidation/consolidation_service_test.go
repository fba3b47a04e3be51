package consolidation

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	consolidationerrors "go-absensi/internal/consolidation/errors"
	"go-absensi/internal/employee"
	"go-absensi/internal/events"
	"go-absensi/internal/messaging/kafka"
	rbacmock "go-absensi/internal/rbac/mock"
	"go-absensi/internal/report"
	reporterrors "go-absensi/internal/report/errors"
	"go-absensi/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeConsolidationRepo struct {
	createFn                 func(ctx context.Context, c *DailyConsolidation) error
	findByDateFn             func(ctx context.Context, date time.Time) (*DailyConsolidation, error)
	deleteByDateFn           func(ctx context.Context, date time.Time) (int64, error)
	existsForDateFn          func(ctx context.Context, date time.Time) (bool, error)
	revertSubmittedReportsFn func(ctx context.Context, date time.Time) (int64, error)
}

func newFakeConsolidationRepo() *fakeConsolidationRepo {
	return &fakeConsolidationRepo{
		createFn:                 func(ctx context.Context, c *DailyConsolidation) error { return nil },
		findByDateFn:             func(ctx context.Context, date time.Time) (*DailyConsolidation, error) { return nil, nil },
		deleteByDateFn:           func(ctx context.Context, date time.Time) (int64, error) { return 0, nil },
		existsForDateFn:          func(ctx context.Context, date time.Time) (bool, error) { return false, nil },
		revertSubmittedReportsFn: func(ctx context.Context, date time.Time) (int64, error) { return 0, nil },
	}
}

func (f *fakeConsolidationRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeConsolidationRepo) Create(ctx context.Context, c *DailyConsolidation) error {
	return f.createFn(ctx, c)
}
func (f *fakeConsolidationRepo) FindByDate(ctx context.Context, date time.Time) (*DailyConsolidation, error) {
	return f.findByDateFn(ctx, date)
}
func (f *fakeConsolidationRepo) DeleteByDate(ctx context.Context, date time.Time) (int64, error) {
	return f.deleteByDateFn(ctx, date)
}
func (f *fakeConsolidationRepo) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	return f.existsForDateFn(ctx, date)
}
func (f *fakeConsolidationRepo) RevertSubmittedReports(ctx context.Context, date time.Time) (int64, error) {
	return f.revertSubmittedReportsFn(ctx, date)
}

type stubReportRepo struct {
	findReportByIDFn                func(ctx context.Context, id string) (*report.AbsenceReport, error)
	findReportsByDateStatusFn       func(ctx context.Context, date time.Time, status string) ([]report.AbsenceReport, error)
	updateReportStatusFn            func(ctx context.Context, id, status string, submittedAt *time.Time) error
	deleteAbsenceFn                 func(ctx context.Context, id string) error
	findRecordedForEmployeeOnDateFn func(ctx context.Context, employeeID string, date time.Time) ([]report.Absence, error)
	findRecordedOnDateFn            func(ctx context.Context, date time.Time) ([]report.Absence, error)
}

func (s *stubReportRepo) WithTx(tx *sql.Tx) report.Repository { return s }
func (s *stubReportRepo) CreateReport(ctx context.Context, r *report.AbsenceReport) error {
	return nil
}
func (s *stubReportRepo) FindReportByID(ctx context.Context, id string) (*report.AbsenceReport, error) {
	return s.findReportByIDFn(ctx, id)
}
func (s *stubReportRepo) FindReportByOwnerDate(ctx context.Context, ownerID string, date time.Time) (*report.AbsenceReport, error) {
	return nil, nil
}
func (s *stubReportRepo) FindReportsByDateStatus(ctx context.Context, date time.Time, status string) ([]report.AbsenceReport, error) {
	return s.findReportsByDateStatusFn(ctx, date, status)
}
func (s *stubReportRepo) UpdateReportStatus(ctx context.Context, id, status string, submittedAt *time.Time) error {
	return s.updateReportStatusFn(ctx, id, status, submittedAt)
}
func (s *stubReportRepo) CreateAbsence(ctx context.Context, a *report.Absence) error { return nil }
func (s *stubReportRepo) DeleteAbsence(ctx context.Context, id string) error {
	return s.deleteAbsenceFn(ctx, id)
}
func (s *stubReportRepo) FindAbsenceByID(ctx context.Context, id string) (*report.Absence, error) {
	return nil, nil
}
func (s *stubReportRepo) FindAbsencesByReport(ctx context.Context, reportID string) ([]report.Absence, error) {
	return nil, nil
}
func (s *stubReportRepo) FindRecordedForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]report.Absence, error) {
	return s.findRecordedForEmployeeOnDateFn(ctx, employeeID, date)
}
func (s *stubReportRepo) FindRecordedOnDate(ctx context.Context, date time.Time) ([]report.Absence, error) {
	return s.findRecordedOnDateFn(ctx, date)
}
func (s *stubReportRepo) CountAbsencesByReport(ctx context.Context, reportIDs []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}
func (s *stubReportRepo) DeleteLeaveConflicts(ctx context.Context, date time.Time, employeeIDs []string) (int64, error) {
	return 0, nil
}
func (s *stubReportRepo) IsDateLocked(ctx context.Context, date time.Time) (bool, error) {
	return false, nil
}

type stubReportService struct {
	cleanupFn func(ctx context.Context, date time.Time) (int64, error)
}

func (s *stubReportService) GetOrCreateReport(ctx context.Context, officerID string, date time.Time) (*report.ReportDetail, error) {
	return nil, nil
}
func (s *stubReportService) AddAbsence(ctx context.Context, reportID, officerID, employeeID string) (*report.AbsenceItem, error) {
	return nil, nil
}
func (s *stubReportService) RemoveAbsence(ctx context.Context, reportID, absenceID, officerID string) error {
	return nil
}
func (s *stubReportService) Submit(ctx context.Context, reportID, officerID string) (*report.ReportDetail, error) {
	return nil, nil
}
func (s *stubReportService) ListForDate(ctx context.Context, userID string, date time.Time) ([]report.ReportSummary, error) {
	return nil, nil
}
func (s *stubReportService) CleanupLeaveConflicts(ctx context.Context, date time.Time) (int64, error) {
	if s.cleanupFn != nil {
		return s.cleanupFn(ctx, date)
	}
	return 0, nil
}

type stubEmployeeDir struct{}

func (stubEmployeeDir) WithTx(tx *sql.Tx) employee.Repository { return stubEmployeeDir{} }
func (stubEmployeeDir) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, nil
}
func (stubEmployeeDir) FindByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, employee.Employee{
			ID:       uuid.MustParse(id),
			FullName: "Employee " + id[:8],
		})
	}
	return out, nil
}

type stubUserDir struct {
	names map[string]string
}

func (s *stubUserDir) WithTx(tx *sql.Tx) user.Repository { return s }
func (s *stubUserDir) FindByID(ctx context.Context, id string) (*user.User, error) {
	return &user.User{ID: uuid.MustParse(id), Name: s.names[id]}, nil
}
func (s *stubUserDir) FindByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	out := make([]user.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, user.User{ID: uuid.MustParse(id), Name: s.names[id]})
	}
	return out, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type consolidationFixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	repo    *fakeConsolidationRepo
	reports *stubReportRepo
	reportS *stubReportService
	users   *stubUserDir
	outbox  *fakeOutbox
	rbac    *rbacmock.MockService
	service Service

	date     time.Time
	reportA  report.AbsenceReport
	reportB  report.AbsenceReport
	officerA uuid.UUID
	officerB uuid.UUID
	e1       uuid.UUID
	e2       uuid.UUID
	absences []report.Absence
}

// newConsolidationFixture seeds the two-officer scenario: reports A and B
// for the same date, both submitted, employee E1 recorded in both (A's
// entry created first) and E2 only in A.
func newConsolidationFixture(t *testing.T) *consolidationFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f := &consolidationFixture{
		db:       db,
		mock:     mock,
		repo:     newFakeConsolidationRepo(),
		reportS:  &stubReportService{},
		outbox:   &fakeOutbox{},
		rbac:     rbacmock.NewMockService(gomock.NewController(t)),
		date:     date,
		officerA: uuid.New(),
		officerB: uuid.New(),
		e1:       uuid.New(),
		e2:       uuid.New(),
	}
	f.reportA = report.AbsenceReport{ID: uuid.New(), ReportDate: date, CreatedBy: f.officerA, Status: report.ReportStatusSubmitted}
	f.reportB = report.AbsenceReport{ID: uuid.New(), ReportDate: date, CreatedBy: f.officerB, Status: report.ReportStatusSubmitted}
	f.users = &stubUserDir{names: map[string]string{
		f.officerA.String(): "Zainal",
		f.officerB.String(): "Agus",
	}}

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	f.absences = []report.Absence{
		{ID: uuid.New(), EmployeeID: f.e1, AbsenceDate: date, Status: report.AbsenceStatusRecorded, ReportID: &f.reportA.ID, RecordedBy: f.officerA, CreatedAt: base},
		{ID: uuid.New(), EmployeeID: f.e2, AbsenceDate: date, Status: report.AbsenceStatusRecorded, ReportID: &f.reportA.ID, RecordedBy: f.officerA, CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), EmployeeID: f.e1, AbsenceDate: date, Status: report.AbsenceStatusRecorded, ReportID: &f.reportB.ID, RecordedBy: f.officerB, CreatedAt: base.Add(2 * time.Minute)},
	}

	f.reports = &stubReportRepo{
		findReportByIDFn: func(ctx context.Context, id string) (*report.AbsenceReport, error) {
			switch id {
			case f.reportA.ID.String():
				rep := f.reportA
				return &rep, nil
			case f.reportB.ID.String():
				rep := f.reportB
				return &rep, nil
			}
			return nil, nil
		},
		findReportsByDateStatusFn: func(ctx context.Context, d time.Time, status string) ([]report.AbsenceReport, error) {
			out := []report.AbsenceReport{}
			for _, rep := range []report.AbsenceReport{f.reportA, f.reportB} {
				if rep.Status == status {
					out = append(out, rep)
				}
			}
			return out, nil
		},
		updateReportStatusFn: func(ctx context.Context, id, status string, submittedAt *time.Time) error {
			if id == f.reportA.ID.String() {
				f.reportA.Status = status
			}
			if id == f.reportB.ID.String() {
				f.reportB.Status = status
			}
			return nil
		},
		deleteAbsenceFn: func(ctx context.Context, id string) error {
			kept := f.absences[:0]
			for _, a := range f.absences {
				if a.ID.String() != id {
					kept = append(kept, a)
				}
			}
			f.absences = kept
			return nil
		},
		findRecordedForEmployeeOnDateFn: func(ctx context.Context, employeeID string, d time.Time) ([]report.Absence, error) {
			out := []report.Absence{}
			for _, a := range f.absences {
				if a.EmployeeID.String() == employeeID {
					out = append(out, a)
				}
			}
			return out, nil
		},
		findRecordedOnDateFn: func(ctx context.Context, d time.Time) ([]report.Absence, error) {
			return append([]report.Absence{}, f.absences...), nil
		},
	}

	f.service = NewService(db, f.repo, f.reports, f.reportS, stubEmployeeDir{}, f.users, f.outbox, f.rbac)
	return f
}

func TestDuplicatesForDate_FindsCrossReportEmployee(t *testing.T) {
	f := newConsolidationFixture(t)

	duplicates, err := f.service.DuplicatesForDate(context.Background(), f.date)
	assert.NoError(t, err)
	assert.Len(t, duplicates, 1)
	assert.Equal(t, f.e1.String(), duplicates[0].EmployeeID)
	assert.Len(t, duplicates[0].Reports, 2)

	creators := []string{duplicates[0].Reports[0].CreatorName, duplicates[0].Reports[1].CreatorName}
	assert.Contains(t, creators, "Zainal")
	assert.Contains(t, creators, "Agus")
}

func TestApprove_FailsWhileDuplicatesRemain(t *testing.T) {
	f := newConsolidationFixture(t)
	managerID := uuid.NewString()
	f.rbac.EXPECT().IsManager(gomock.Any(), managerID).Return(true, nil)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.date, managerID)
	assert.ErrorIs(t, err, consolidationerrors.ErrDuplicatesRemain)
	assert.Empty(t, f.outbox.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestResolveDuplicate_KeepsEarliestAndRevertsLoser(t *testing.T) {
	f := newConsolidationFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	outcome, err := f.service.ResolveDuplicate(context.Background(), f.date, f.e1.String())
	assert.NoError(t, err)
	assert.Equal(t, 1, outcome.Removed)
	assert.Equal(t, []string{f.reportB.ID.String()}, outcome.RevertedReports)

	// the surviving entry is report A's, the earliest created
	remaining := []report.Absence{}
	for _, a := range f.absences {
		if a.EmployeeID == f.e1 {
			remaining = append(remaining, a)
		}
	}
	assert.Len(t, remaining, 1)
	assert.Equal(t, f.reportA.ID, *remaining[0].ReportID)
	assert.Equal(t, report.ReportStatusDraft, f.reportB.Status)
	assert.Equal(t, report.ReportStatusSubmitted, f.reportA.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestResolveDuplicate_NoDuplicate(t *testing.T) {
	f := newConsolidationFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.ResolveDuplicate(context.Background(), f.date, f.e2.String())
	assert.ErrorIs(t, err, consolidationerrors.ErrNoDuplicateForEmployee)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestResolveDuplicate_LockedDay(t *testing.T) {
	f := newConsolidationFixture(t)
	f.repo.existsForDateFn = func(ctx context.Context, date time.Time) (bool, error) { return true, nil }

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.ResolveDuplicate(context.Background(), f.date, f.e1.String())
	assert.ErrorIs(t, err, reporterrors.ErrDayLocked)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_SucceedsAfterResolution(t *testing.T) {
	f := newConsolidationFixture(t)
	managerID := uuid.NewString()
	f.rbac.EXPECT().IsManager(gomock.Any(), managerID).Return(true, nil).AnyTimes()

	// resolve E1 first, then approve
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.ResolveDuplicate(context.Background(), f.date, f.e1.String())
	assert.NoError(t, err)

	// report B reopened on resolution; resubmit it for the approval
	f.reportB.Status = report.ReportStatusSubmitted

	var created *DailyConsolidation
	f.repo.createFn = func(ctx context.Context, c *DailyConsolidation) error {
		created = c
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	meta, err := f.service.Approve(context.Background(), f.date, managerID)
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "2024-06-01", meta.ReportDate)
	assert.Equal(t, managerID, meta.ApprovedBy)

	assert.Len(t, f.outbox.created, 1)
	assert.Equal(t, events.EventDayConsolidated, f.outbox.created[0].EventType)
	assert.Equal(t, events.DayLifecycleTopic, f.outbox.created[0].Topic)

	var payload events.DayConsolidatedEvent
	assert.NoError(t, json.Unmarshal(f.outbox.created[0].Payload, &payload))
	assert.Equal(t, "2024-06-01", payload.ReportDate)
	assert.Equal(t, 2, payload.ReportCount)
	assert.Equal(t, 2, payload.AbsenceCount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_RequiresManager(t *testing.T) {
	f := newConsolidationFixture(t)
	officerID := uuid.NewString()
	f.rbac.EXPECT().IsManager(gomock.Any(), officerID).Return(false, nil)

	_, err := f.service.Approve(context.Background(), f.date, officerID)
	assert.ErrorIs(t, err, consolidationerrors.ErrNotManager)
}

func TestApprove_RequiresSubmittedReport(t *testing.T) {
	f := newConsolidationFixture(t)
	managerID := uuid.NewString()
	f.rbac.EXPECT().IsManager(gomock.Any(), managerID).Return(true, nil)
	f.reportA.Status = report.ReportStatusDraft
	f.reportB.Status = report.ReportStatusDraft

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.date, managerID)
	assert.ErrorIs(t, err, consolidationerrors.ErrNothingToConsolidate)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_AlreadyConsolidated(t *testing.T) {
	f := newConsolidationFixture(t)
	managerID := uuid.NewString()
	f.rbac.EXPECT().IsManager(gomock.Any(), managerID).Return(true, nil)
	f.repo.existsForDateFn = func(ctx context.Context, date time.Time) (bool, error) { return true, nil }

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.date, managerID)
	assert.ErrorIs(t, err, consolidationerrors.ErrConsolidationExists)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUnapprove_ReopensSubmittedReports(t *testing.T) {
	f := newConsolidationFixture(t)

	f.repo.deleteByDateFn = func(ctx context.Context, date time.Time) (int64, error) { return 1, nil }
	reverted := false
	f.repo.revertSubmittedReportsFn = func(ctx context.Context, date time.Time) (int64, error) {
		reverted = true
		return 2, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	err := f.service.Unapprove(context.Background(), f.date)
	assert.NoError(t, err)
	assert.True(t, reverted)
	assert.Len(t, f.outbox.created, 1)
	assert.Equal(t, events.EventDayReopened, f.outbox.created[0].EventType)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUnapprove_NothingToRemove(t *testing.T) {
	f := newConsolidationFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := f.service.Unapprove(context.Background(), f.date)
	assert.ErrorIs(t, err, consolidationerrors.ErrNoConsolidation)
	assert.Empty(t, f.outbox.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConsolidatedForDate_DedupesAndSweepsOpenDay(t *testing.T) {
	f := newConsolidationFixture(t)

	swept := false
	f.reportS.cleanupFn = func(ctx context.Context, date time.Time) (int64, error) {
		swept = true
		return 0, nil
	}

	day, err := f.service.ConsolidatedForDate(context.Background(), f.date)
	assert.NoError(t, err)
	assert.True(t, swept)
	assert.False(t, day.Locked)
	assert.Nil(t, day.Consolidation)
	// E1 appears once even though two reports list it
	assert.Len(t, day.Absences, 2)
	seen := map[string]bool{}
	for _, a := range day.Absences {
		seen[a.EmployeeID] = true
	}
	assert.True(t, seen[f.e1.String()])
	assert.True(t, seen[f.e2.String()])
}

func TestConsolidatedForDate_LockedDaySkipsCleanup(t *testing.T) {
	f := newConsolidationFixture(t)
	approvedAt := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	f.repo.findByDateFn = func(ctx context.Context, date time.Time) (*DailyConsolidation, error) {
		return &DailyConsolidation{ID: uuid.New(), ReportDate: f.date, ApprovedBy: uuid.New(), ApprovedAt: approvedAt}, nil
	}

	swept := false
	f.reportS.cleanupFn = func(ctx context.Context, date time.Time) (int64, error) {
		swept = true
		return 0, nil
	}

	day, err := f.service.ConsolidatedForDate(context.Background(), f.date)
	assert.NoError(t, err)
	assert.True(t, day.Locked)
	assert.NotNil(t, day.Consolidation)
	assert.Equal(t, approvedAt, day.Consolidation.ApprovedAt)
	assert.False(t, swept)
}

func TestIsDateLocked_Delegates(t *testing.T) {
	f := newConsolidationFixture(t)
	f.repo.existsForDateFn = func(ctx context.Context, date time.Time) (bool, error) { return true, nil }

	locked, err := f.service.IsDateLocked(context.Background(), f.date)
	assert.NoError(t, err)
	assert.True(t, locked)
}

func TestResolveAllDuplicates_PerItemOutcome(t *testing.T) {
	f := newConsolidationFixture(t)

	// one duplicate (E1) resolves in its own transaction
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	outcomes, err := f.service.ResolveAllDuplicates(context.Background(), f.date)
	assert.NoError(t, err)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, ResolveStatusResolved, outcomes[0].Status)
	assert.Equal(t, f.e1.String(), outcomes[0].EmployeeID)
}

func TestResolveAllDuplicates_LockedFailsFast(t *testing.T) {
	f := newConsolidationFixture(t)
	f.repo.existsForDateFn = func(ctx context.Context, date time.Time) (bool, error) { return true, nil }

	_, err := f.service.ResolveAllDuplicates(context.Background(), f.date)
	assert.ErrorIs(t, err, reporterrors.ErrDayLocked)
}
