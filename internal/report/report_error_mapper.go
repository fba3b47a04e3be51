package report

import (
	"errors"

	reporterrors "go-absensi/internal/report/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// mapConstraintError translates unique-index violations raised by a racing
// writer into the business error the application-level check would have
// produced.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "uq_report_owner_date":
		return reporterrors.ErrReportAlreadyExists
	case "uq_absence_employee_date":
		return reporterrors.ErrEmployeeRecordedElsewhere
	default:
		return err
	}
}
