package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sekolah-web/core/internal/pkg/requestctx"
)

// Headers set by the trusted upstream that authenticated the caller.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
	HeaderRequestID = "X-Request-ID"
)

// RequestContext stores the caller identity in the request context so the
// activity log can attribute changes. A request id is generated when the
// client did not send one, and echoed back.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := requestctx.Info{
			ActorName: strings.TrimSpace(c.GetHeader(HeaderActorName)),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: strings.TrimSpace(c.GetHeader(HeaderRequestID)),
		}
		if raw := strings.TrimSpace(c.GetHeader(HeaderActorID)); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
				v := uint(id)
				info.ActorID = &v
			}
		}
		if info.RequestID == "" || len(info.RequestID) > 64 {
			info.RequestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, info.RequestID)
		c.Request = c.Request.WithContext(requestctx.With(c.Request.Context(), info))
		c.Next()
	}
}
