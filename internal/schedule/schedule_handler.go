package schedule

import (
	"net/http"
	"strconv"

	"go-absensi/internal/shared/apperror"
	"go-absensi/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) WorkDays(c *gin.Context) {
	employeeID := c.Query("employee_id")
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	if employeeID == "" || year == 0 || month < 1 || month > 12 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee_id, year and month are required", nil)
		return
	}

	resp, err := h.service.WorkDaysForMonth(c.Request.Context(), employeeID, year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApplyPattern(c *gin.Context) {
	var req ApplyPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	outcomes, err := h.service.ApplyMonthlyPattern(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcomes, nil)
}
