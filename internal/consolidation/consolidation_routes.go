package consolidation

import (
	"go-absensi/internal/middleware"
	"go-absensi/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, redisClient *redis.Client) {
	consolidations := r.Group("/consolidations")
	consolidations.Use(middleware.AuthMiddleware())
	{
		consolidations.GET("/:date", middleware.RBACAuthorize(rbacService, "consolidation", "read"), h.Consolidated)
		consolidations.GET("/:date/locked", middleware.RBACAuthorize(rbacService, "consolidation", "read"), h.Locked)
		consolidations.GET("/:date/duplicates", middleware.RBACAuthorize(rbacService, "consolidation", "read"), h.Duplicates)
		consolidations.POST("/:date/duplicates/resolve", middleware.RBACAuthorize(rbacService, "consolidation", "manage"), h.ResolveAllDuplicates)
		consolidations.POST("/:date/duplicates/resolve-one", middleware.RBACAuthorize(rbacService, "consolidation", "manage"), h.ResolveDuplicate)
		consolidations.POST("/:date/approve",
			middleware.RBACAuthorize(rbacService, "consolidation", "approve"),
			middleware.IdempotencyMiddleware(redisClient),
			h.Approve,
		)
		consolidations.DELETE("/:date/approve", middleware.RBACAuthorize(rbacService, "consolidation", "approve"), h.Unapprove)
	}
}
