package validator

import (
	"errors"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// FieldError describes the first rule that failed on a struct.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return e.Field + " failed on " + e.Tag
}

// Validator provides validation functionality
type Validator interface {
	// First returns the first failing field in declaration order, or nil.
	First(obj interface{}) (*FieldError, error)
}

type validator struct {
	engine *playground.Validate
}

func New() Validator {
	engine := playground.New()
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &validator{engine: engine}
}

func (v *validator) First(obj interface{}) (*FieldError, error) {
	err := v.engine.Struct(obj)
	if err == nil {
		return nil, nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return nil, err
	}

	return &FieldError{Field: verrs[0].Field(), Tag: verrs[0].Tag()}, nil
}
