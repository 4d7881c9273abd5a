package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicalife/patient-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Patient  interface{} `json:"patient,omitempty"`
	Patients interface{} `json:"patients,omitempty"`
}

// RespondWithSuccess sends a success response with the given status
func RespondWithSuccess(c *gin.Context, status int, resp Response) {
	resp.Success = true
	c.JSON(status, resp)
}

// RespondWithError sends an error response. AppErrors keep their status and
// message; anything else becomes a 500 and is recorded on the context for the
// error middleware to log.
func RespondWithError(c *gin.Context, err error) {
	status, resp := ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

// AbortWithError is RespondWithError for middleware.
func AbortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}

// ErrorResponse maps err to a status code and failure body.
func ErrorResponse(err error) (int, Response) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	return appErr.StatusCode(), Response{
		Success: false,
		Message: appErr.Message,
	}
}
