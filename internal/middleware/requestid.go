package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"

	contextLogger = "request_logger"
)

// inbound ids are echoed in headers and logs, so only short token-like values are kept
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID assigns the request id, reusing a well-formed X-Request-ID, and
// attaches a logger carrying it to both the gin and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if !validRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}

		l := log.With().Str("request_id", rid).Logger()
		c.Set(ContextRequestID, rid)
		c.Set(contextLogger, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

// RequestLogger returns the logger bound to the request, or the global one
// when RequestID did not run.
func RequestLogger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(contextLogger); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	return &log.Logger
}
