package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic in a debug or admin handler into a 500 carrying the
// trace ID, so an operator can match the response to the logged stack. The
// monster ID is logged for /monsters/:id routes. A frame stream that has
// already sent its headers is only aborted.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			fields := []zap.Field{
				zap.Any("error", r),
				zap.String("trace_id", GetTraceID(c)),
				zap.String("route", c.FullPath()),
				zap.Stack("stack"),
			}
			if id := c.Param("id"); id != "" {
				fields = append(fields, zap.String("monster", id))
			}
			log.Error("panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":    "internal server error",
				"trace_id": GetTraceID(c),
			})
		}()
		c.Next()
	}
}
