package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/danfirsten/Standup/internal/pkg/ctxutil"
	"github.com/danfirsten/Standup/internal/pkg/ids"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext makes every request carry a request id and a trace id.
// A caller-supplied X-Request-Id is kept; otherwise a ULID is minted. The
// trace id prefers the active OTel span, then the caller header, then the
// request id.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := &ctxutil.TraceData{RequestID: requestID(c)}
		td.TraceID = traceID(c, td.RequestID)

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		h := c.Writer.Header()
		h.Set(headerRequestID, td.RequestID)
		h.Set(headerTraceID, td.TraceID)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(headerRequestID))
	if id == "" || len(id) > maxRequestIDLen {
		return ids.New()
	}
	return id
}

func traceID(c *gin.Context, fallback string) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	if id := strings.TrimSpace(c.GetHeader(headerTraceID)); id != "" && len(id) <= maxRequestIDLen {
		return id
	}
	return fallback
}
