package schedule

import (
	"go-absensi/internal/middleware"
	"go-absensi/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.GET("/work-days", middleware.RBACAuthorize(rbacService, "schedule", "read"), h.WorkDays)
		schedules.POST("/apply-pattern", middleware.RBACAuthorize(rbacService, "schedule", "manage"), h.ApplyPattern)
	}
}
