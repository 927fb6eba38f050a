// Package validation wraps go-playground/validator so controllers get
// field-level violations as plain values instead of panicking parsers.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates the per-field violations of one request.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates s against its `validate` tags. It returns nil when valid
// and a *Error listing every violating field otherwise.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return &Error{Fields: []FieldError{{Field: "", Message: "invalid input"}}}
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return &Error{Fields: []FieldError{{Field: "", Message: err.Error()}}}
	}

	fields := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, FieldError{
			Field:   v.Field(),
			Message: messageFor(v),
		})
	}

	return &Error{Fields: fields}
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", v.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", v.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", v.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", v.Param())
	default:
		return fmt.Sprintf("failed %s validation", v.Tag())
	}
}
