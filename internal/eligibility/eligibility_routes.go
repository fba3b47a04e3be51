package eligibility

import (
	"go-absensi/internal/middleware"
	"go-absensi/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	eligibility := r.Group("/eligibility")
	eligibility.Use(middleware.AuthMiddleware())
	{
		eligibility.GET("", middleware.RBACAuthorize(rbacService, "absence", "read"), h.Validate)
	}
}
