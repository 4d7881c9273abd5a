package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/medicalife/patient-api/pkg/httputil"
)

// ErrorHandler logs errors attached to the context and answers with the last
// one when the handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		l := RequestLogger(c)
		for _, e := range c.Errors {
			l.Error().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}
		status, resp := httputil.ErrorResponse(c.Errors.Last().Err)
		c.JSON(status, resp)
	}
}
