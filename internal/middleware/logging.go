package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"correlation_id": c.GetString(CorrelationIDKey),
			"method":         c.Request.Method,
			"path":           c.FullPath(),
			"status":         status,
			"latency_ms":     time.Since(start).Milliseconds(),
			"client_ip":      c.ClientIP(),
			"response_size":  c.Writer.Size(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}
