package middleware

import (
	"power-vend-api/internal/apperrors"
	"power-vend-api/internal/response"
	"power-vend-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the context into the standard
// error envelope. It must be registered before any route handlers.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		kind := apperrors.KindOf(err)
		status := apperrors.StatusOf(kind)

		if status >= 500 {
			logging.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		response.ErrorJSON(c, status, apperrors.MessageOf(err))
	}
}
