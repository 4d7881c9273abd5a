package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the HTTP status carried by an application error
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode lets the gin error middleware map the error to a response status.
func (e *AppError) StatusCode() int {
	return int(e.Code)
}

// Common error codes
const (
	ErrInvalidArgument ErrorCode = http.StatusBadRequest
	ErrNotFound        ErrorCode = http.StatusNotFound
	ErrConflict        ErrorCode = http.StatusConflict
	ErrInternal        ErrorCode = http.StatusInternalServerError
	ErrTimeout         ErrorCode = http.StatusGatewayTimeout
)

// New builds an AppError for statuses without a dedicated constructor.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Error constructors
func InvalidArgument(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidArgument,
		Message: message,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: message,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "Erro interno do servidor.",
		Err:     err,
	}
}

// Timeout reports a request whose deadline passed before storage answered.
func Timeout(err error) *AppError {
	return &AppError{
		Code:    ErrTimeout,
		Message: "Tempo limite da requisição excedido.",
		Err:     err,
	}
}

// As returns the AppError wrapped in err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
