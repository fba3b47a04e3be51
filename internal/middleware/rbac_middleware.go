package middleware

import (
	"net/http"

	"go-absensi/internal/rbac"
	"go-absensi/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACAuthorize checks the caller's role policies for resource:action
// before the handler runs. AuthMiddleware must have run first.
func RBACAuthorize(service rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(c.Request.Context(), rbac.EnforceRequest{
			UserID:   userID,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
