package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerGuard hides the API documentation unless it is enabled.
func SwaggerGuard(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, errorBody(c, "ERR_NOT_FOUND", "API documentation is not available"))
			return
		}
		c.Next()
	}
}
