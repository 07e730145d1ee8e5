package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"precastcatalog/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and tags the response with a request id.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(requestIDHeader, rid)
		c.Set("request_id", rid)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if u := CurrentUser(c); u != nil {
			fields = append(fields, zap.String("user", u.Email))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("[HTTP] request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= http.StatusBadRequest:
			log.Info("[HTTP] request rejected", fields...)
		default:
			log.Debug("[HTTP] request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("[HTTP] panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
			}
		}()
		c.Next()
	}
}
