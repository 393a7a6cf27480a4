package scalar

import (
	"errors"
	"fmt"
)

var (
	ErrNullValue        = errors.New("value is null")
	ErrNotInteger       = errors.New("expected an integer count of milliseconds")
	ErrNotString        = errors.New("expected a local date-time string")
	ErrNotStringLiteral = errors.New("expected a string literal")
	ErrMalformed        = errors.New("expected local date-time in the form yyyy-MM-ddTHH:mm[:ss[.fffffffff]]")
)

// SerializationError is returned when an internal value cannot be rendered as DateTime.
type SerializationError struct {
	Value any
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("an error occurred while serializing the value %v: %v", e.Value, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ParseValueError is returned when a variable value cannot be read as DateTime.
type ParseValueError struct {
	Value any
	Err   error
}

func (e *ParseValueError) Error() string {
	return fmt.Sprintf("an error occurred while parsing the value %v: %v", e.Value, e.Err)
}

func (e *ParseValueError) Unwrap() error { return e.Err }

// ParseLiteralError is returned when an inline query literal cannot be read as DateTime.
type ParseLiteralError struct {
	Literal string
	Err     error
}

func (e *ParseLiteralError) Error() string {
	return fmt.Sprintf("an error occurred while parsing the literal %s: %v", e.Literal, e.Err)
}

func (e *ParseLiteralError) Unwrap() error { return e.Err }
