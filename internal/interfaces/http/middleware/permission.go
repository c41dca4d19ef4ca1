package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAnyPermission lets the request through when the token carries at
// least one of permissions.
func RequireAnyPermission(log *zap.Logger, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims != nil {
			for _, p := range permissions {
				if claims.HasPermission(p) {
					c.Next()
					return
				}
			}
		}
		if log != nil {
			log.Warn("permission denied",
				zap.Strings("required_any", permissions),
				zap.String("path", c.Request.URL.Path),
			)
		}
		c.AbortWithStatusJSON(http.StatusForbidden, errorBody(c, "ERR_FORBIDDEN", "Insufficient permissions"))
	}
}

// RequireResource checks "<resource>:<action>" where the action follows the
// HTTP method. Workflow actions posted to a resource need "<resource>:update".
func RequireResource(log *zap.Logger, resource string) gin.HandlerFunc {
	byAction := map[string]gin.HandlerFunc{}
	for _, action := range []string{"read", "create", "update", "delete"} {
		byAction[action] = RequireAnyPermission(log, resource+":"+action)
	}
	return func(c *gin.Context) {
		byAction[methodToAction(c)](c)
	}
}

func methodToAction(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		if c.Param("id") != "" {
			return "update"
		}
		return "create"
	case http.MethodDelete:
		// removing a member of a resource edits the parent
		if c.Param("customer_id") != "" || c.Param("item_id") != "" {
			return "update"
		}
		return "delete"
	default:
		return "update"
	}
}
