package report

import (
	"go-absensi/internal/middleware"
	"go-absensi/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("", middleware.RBACAuthorize(rbacService, "report", "read"), h.ListForDate)
		reports.POST("", middleware.RBACAuthorize(rbacService, "report", "write"), h.GetOrCreate)
		reports.POST("/:id/absences", middleware.RBACAuthorize(rbacService, "report", "write"), h.AddAbsence)
		reports.DELETE("/:id/absences/:absenceId", middleware.RBACAuthorize(rbacService, "report", "write"), h.RemoveAbsence)
		reports.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "report", "write"), h.Submit)
	}
}
