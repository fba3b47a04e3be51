package report

import (
	"net/http"

	"go-absensi/internal/shared/apperror"
	"go-absensi/internal/shared/contextutil"
	"go-absensi/internal/shared/dateonly"
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

// GetOrCreate answers POST /reports. The body carries the report date; the
// officer comes from the authenticated context.
func (h *Handler) GetOrCreate(c *gin.Context) {
	var req GetOrCreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}
	date, err := dateonly.Parse(req.ReportDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "report_date must be YYYY-MM-DD", nil)
		return
	}

	officerID := contextutil.GetUserID(c.Request.Context())
	detail, err := h.service.GetOrCreateReport(c.Request.Context(), officerID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail, nil)
}

func (h *Handler) AddAbsence(c *gin.Context) {
	var req AddAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	officerID := contextutil.GetUserID(c.Request.Context())
	item, err := h.service.AddAbsence(c.Request.Context(), c.Param("id"), officerID, req.EmployeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item, nil)
}

func (h *Handler) RemoveAbsence(c *gin.Context) {
	officerID := contextutil.GetUserID(c.Request.Context())
	err := h.service.RemoveAbsence(c.Request.Context(), c.Param("id"), c.Param("absenceId"), officerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	officerID := contextutil.GetUserID(c.Request.Context())
	detail, err := h.service.Submit(c.Request.Context(), c.Param("id"), officerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail, nil)
}

// ListForDate answers GET /reports?date=YYYY-MM-DD. Managers see every
// submitted report; officers see their own.
func (h *Handler) ListForDate(c *gin.Context) {
	date, err := dateonly.Parse(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "date must be YYYY-MM-DD", nil)
		return
	}

	userID := contextutil.GetUserID(c.Request.Context())
	summaries, err := h.service.ListForDate(c.Request.Context(), userID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summaries, nil)
}
