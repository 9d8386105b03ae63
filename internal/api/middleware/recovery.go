package middleware

import (
	"net/http"
	"runtime/debug"

	"carecase-workers/internal/api/respond"
	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns panics into a 500 error body.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic", map[string]interface{}{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, string(apperrors.ErrCodeInternal), "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
