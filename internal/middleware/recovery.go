package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
)

// Recovery returns a middleware that recovers from panics
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("error_type", fmt.Sprintf("%T", err)),
					zap.String("request_id", c.GetString(response.RequestIDKey)),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Stack("stacktrace"),
				)

				response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
			}
		}()

		c.Next()
	}
}
