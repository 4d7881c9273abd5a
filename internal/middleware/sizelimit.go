package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicalife/patient-api/pkg/errors"
	"github.com/medicalife/patient-api/pkg/httputil"
)

const msgBodyTooLarge = "Corpo da requisição excede o tamanho permitido."

// SizeLimit rejects declared oversize bodies up front and caps the reader for
// chunked ones.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBodyBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodyBytes {
			httputil.AbortWithError(c, errors.New(http.StatusRequestEntityTooLarge, msgBodyTooLarge))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from a capped body reader.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

// BodyTooLarge is the error handlers answer with when IsBodyTooLarge holds.
func BodyTooLarge() *errors.AppError {
	return errors.New(http.StatusRequestEntityTooLarge, msgBodyTooLarge)
}
