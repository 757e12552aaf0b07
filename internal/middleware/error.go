package middleware

import (
	"runtime/debug"

	"rentalhub/pkg/logger"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler turns panics into a 500 envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithModule("http").
					WithField("path", c.Request.URL.Path).
					WithField("stack", string(debug.Stack())).
					Errorf("Panic recovered: %v", err)
				response.ServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := timeNow()
		c.Next()
		logger.WithModule("http").WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": timeNow().Sub(start).String(),
			"ip":      c.ClientIP(),
		}).Debug("request")
	}
}
