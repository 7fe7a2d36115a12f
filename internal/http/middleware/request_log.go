package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danfirsten/Standup/internal/pkg/ctxutil"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// RequestLogger writes one line per API call. The user id is hashed by the
// logger's redactor like every other user_id field.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", routeOf(c),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		ctx := c.Request.Context()
		if td := ctxutil.GetTraceData(ctx); td != nil {
			kv = append(kv, "request_id", td.RequestID, "trace_id", td.TraceID)
		}
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			kv = append(kv, "user_id", rd.UserID.String())
		}
		if last := c.Errors.Last(); last != nil {
			kv = append(kv, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("API request failed", kv...)
		case status >= 400:
			log.Warn("API request rejected", kv...)
		default:
			log.Debug("API request", kv...)
		}
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
