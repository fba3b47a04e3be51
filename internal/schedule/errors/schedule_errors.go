package scheduleerrors

import (
	"net/http"

	"go-absensi/internal/shared/apperror"
)

var (
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"no work schedule for this employee and month",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrCycleStartRequired = apperror.New(
		apperror.CodeInvalidInput,
		"cycle_start_date is required for rotating shift patterns",
		http.StatusBadRequest,
	)
	ErrInvalidCycleStart = apperror.New(
		apperror.CodeInvalidInput,
		"invalid cycle_start_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
