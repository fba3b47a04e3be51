package consolidationerrors

import (
	"net/http"

	"go-absensi/internal/shared/apperror"
)

var (
	ErrConsolidationExists = apperror.New(
		apperror.CodeConflict,
		"this date is already consolidated",
		http.StatusConflict,
	)
	ErrNoConsolidation = apperror.New(
		apperror.CodeInvalidState,
		"no consolidation exists for this date",
		http.StatusConflict,
	)
	ErrNothingToConsolidate = apperror.New(
		apperror.CodeInvalidState,
		"no submitted reports exist for this date",
		http.StatusConflict,
	)
	ErrDuplicatesRemain = apperror.New(
		apperror.CodeConflict,
		"duplicate employee entries remain; resolve duplicates first",
		http.StatusConflict,
	)
	ErrNoDuplicateForEmployee = apperror.New(
		apperror.CodeNotFound,
		"employee has no duplicate entries for this date",
		http.StatusNotFound,
	)
	ErrNotManager = apperror.New(
		apperror.CodeForbidden,
		"only a manager may consolidate a day",
		http.StatusForbidden,
	)
)
