package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request and recovers from panics with a JSON 500.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.WithFields(logrus.Fields{
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"client_ip":  c.ClientIP(),
					"request_id": requestID(c),
					"latency":    time.Since(start).String(),
					"stack":      string(debug.Stack()),
				}).Errorf("panic recovered: %v", recovered)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			entry := log.WithFields(logrus.Fields{
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"query":      c.Request.URL.RawQuery,
				"status":     c.Writer.Status(),
				"client_ip":  c.ClientIP(),
				"user_id":    c.GetString("user_id"),
				"request_id": requestID(c),
				"latency":    time.Since(start).String(),
			})

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				entry.Error(errorSummary(c))
			case c.Writer.Status() >= http.StatusBadRequest:
				entry.Warn(errorSummary(c))
			default:
				entry.Info("request")
			}
		}()

		c.Next()
	}
}

func errorSummary(c *gin.Context) string {
	if len(c.Errors) == 0 {
		return fmt.Sprintf("request failed status=%d", c.Writer.Status())
	}
	return c.Errors.String()
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
