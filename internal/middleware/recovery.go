package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/medicalife/patient-api/pkg/errors"
	"github.com/medicalife/patient-api/pkg/httputil"
)

// Recovery handles panics and logs them appropriately
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				RequestLogger(c).Error().
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Msg("Request panic recovered")

				status, resp := httputil.ErrorResponse(errors.Internal(fmt.Errorf("panic: %v", rec)))
				c.AbortWithStatusJSON(status, resp)
			}
		}()
		c.Next()
	}
}
