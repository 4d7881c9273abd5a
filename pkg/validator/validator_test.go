package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	City  string `json:"city,omitempty" validate:"required"`
	Notes string `json:"notes"`
}

func TestFirstReportsDeclarationOrder(t *testing.T) {
	v := New()

	fe, err := v.First(&sample{})
	require.NoError(t, err)
	require.NotNil(t, fe)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "required", fe.Tag)

	fe, err = v.First(&sample{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "email", fe.Field)

	fe, err = v.First(&sample{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "city", fe.Field)
}

func TestFirstPassesValidStruct(t *testing.T) {
	fe, err := New().First(&sample{Name: " ", Email: "a", City: "b"})
	require.NoError(t, err)
	assert.Nil(t, fe)
}

func TestFirstRejectsNonStruct(t *testing.T) {
	_, err := New().First("not a struct")
	assert.Error(t, err)
}
