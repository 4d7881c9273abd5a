package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InvalidArgument("x").StatusCode())
	assert.Equal(t, http.StatusNotFound, NotFound("x").StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("x", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(stderrors.New("boom")).StatusCode())
	assert.Equal(t, http.StatusGatewayTimeout, Timeout(context.DeadlineExceeded).StatusCode())
	assert.ErrorIs(t, Timeout(context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "Paciente não encontrado.", NotFound("Paciente não encontrado.").Error())

	cause := stderrors.New("duplicate key")
	err := Conflict("Já existe um paciente registrado com esse email.", cause)
	assert.Equal(t, "Já existe um paciente registrado com esse email.: duplicate key", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", InvalidArgument("Id de paciente não informado."))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrInvalidArgument, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrInvalidArgument))
	assert.False(t, HasCode(wrapped, ErrNotFound))

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}
