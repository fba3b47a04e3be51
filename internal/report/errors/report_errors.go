package reporterrors

import (
	"net/http"

	"go-absensi/internal/shared/apperror"
)

var (
	ErrReportNotFound = apperror.New(
		apperror.CodeNotFound,
		"report not found",
		http.StatusNotFound,
	)
	ErrAbsenceNotFound = apperror.New(
		apperror.CodeNotFound,
		"absence not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrNotReportOwner = apperror.New(
		apperror.CodeForbidden,
		"report belongs to another officer",
		http.StatusForbidden,
	)
	ErrNoAssignedDepartments = apperror.New(
		apperror.CodeForbidden,
		"officer has no assigned departments",
		http.StatusForbidden,
	)
	ErrEmployeeOutsideScope = apperror.New(
		apperror.CodeForbidden,
		"employee is outside the officer's assigned departments",
		http.StatusForbidden,
	)
	ErrDayLocked = apperror.New(
		apperror.CodeConflict,
		"day already consolidated",
		http.StatusConflict,
	)
	ErrReportAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a report for this officer and date already exists",
		http.StatusConflict,
	)
	ErrAlreadySubmitted = apperror.New(
		apperror.CodeConflict,
		"report is already submitted",
		http.StatusConflict,
	)
	ErrEmployeeAlreadyInReport = apperror.New(
		apperror.CodeConflict,
		"employee is already in this report",
		http.StatusConflict,
	)
	ErrEmployeeRecordedElsewhere = apperror.New(
		apperror.CodeConflict,
		"employee already has a recorded absence in another report for this date",
		http.StatusConflict,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidInput,
		"employee is not active",
		http.StatusUnprocessableEntity,
	)
	ErrEligibilityDenied = apperror.New(
		apperror.CodeEligibilityDenied,
		"absence cannot be recorded for this date",
		http.StatusUnprocessableEntity,
	)
	ErrAbsenceNotInReport = apperror.New(
		apperror.CodeNotFound,
		"absence does not belong to this report",
		http.StatusNotFound,
	)
)
