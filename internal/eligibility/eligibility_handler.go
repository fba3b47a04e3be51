package eligibility

import (
	"net/http"

	eligibilityerrors "go-absensi/internal/eligibility/errors"
	"go-absensi/internal/shared/apperror"
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

// Validate answers GET /eligibility?employee_id=...&date=YYYY-MM-DD. It is
// the standalone entry to the same check the report workflow applies.
func (h *Handler) Validate(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee_id is required", nil)
		return
	}
	date, err := dateonly.Parse(c.Query("date"))
	if err != nil {
		writeServiceError(c, eligibilityerrors.ErrInvalidDateFormat)
		return
	}

	res, err := h.service.ValidateCanAddAbsence(c.Request.Context(), employeeID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
