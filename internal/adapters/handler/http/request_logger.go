package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/logger"
)

// requestLogger replaces gin's default logger with the structured one.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}
