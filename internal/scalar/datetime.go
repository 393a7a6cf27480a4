// Package scalar implements the DateTime custom scalar: conversion between the
// wire form (a local date-time string without zone) and the stored form
// (milliseconds since the Unix epoch).
package scalar

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"time"

	"github.com/graphql-go/graphql/language/ast"
)

const (
	Name        = "DateTime"
	Description = "Custom Scalar to handle DateTime"

	layoutSeconds = "2006-01-02T15:04:05"
	layoutMinutes = "2006-01-02T15:04"
	layoutMillis  = "2006-01-02T15:04:05.000"
)

var localDateTime = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?$`)

// Coercer is the three-direction contract a GraphQL engine needs for a custom
// scalar, plus literal rendering for introspection.
type Coercer interface {
	Serialize(v any) (string, error)
	ParseValue(v any) (int64, error)
	ParseLiteral(node ast.Value) (int64, error)
	ValueToLiteral(v any) ast.Value
}

var _ Coercer = (*DateTime)(nil)

// DateTime coerces epoch milliseconds to and from local date-time strings in a
// fixed zone. The zero value is not usable; construct with NewDateTime.
type DateTime struct {
	loc *time.Location
}

// NewDateTime returns a coercer bound to loc. A nil loc means time.Local.
func NewDateTime(loc *time.Location) *DateTime {
	if loc == nil {
		loc = time.Local
	}
	return &DateTime{loc: loc}
}

// Location reports the zone used for every conversion.
func (d *DateTime) Location() *time.Location {
	return d.loc
}

// Serialize renders an integer millisecond count as a local date-time string.
// The fractional part is only written when the millisecond component is non-zero.
func (d *DateTime) Serialize(v any) (string, error) {
	ms, err := toMillis(v)
	if err != nil {
		return "", &SerializationError{Value: v, Err: err}
	}
	t := time.UnixMilli(ms).In(d.loc)
	if t.Nanosecond() != 0 {
		return t.Format(layoutMillis), nil
	}
	return t.Format(layoutSeconds), nil
}

// ParseValue reads a variable payload.
func (d *DateTime) ParseValue(v any) (int64, error) {
	if v == nil {
		return 0, &ParseValueError{Value: v, Err: ErrNullValue}
	}
	s, ok := v.(string)
	if !ok {
		return 0, &ParseValueError{Value: v, Err: fmt.Errorf("%w, got %T", ErrNotString, v)}
	}
	ms, err := d.parse(s)
	if err != nil {
		return 0, &ParseValueError{Value: v, Err: err}
	}
	return ms, nil
}

// ParseLiteral reads an inline query literal. Only string literals are accepted.
func (d *DateTime) ParseLiteral(node ast.Value) (int64, error) {
	sv, ok := node.(*ast.StringValue)
	if !ok || sv == nil {
		return 0, &ParseLiteralError{Literal: describeLiteral(node), Err: ErrNotStringLiteral}
	}
	ms, err := d.parse(sv.Value)
	if err != nil {
		return 0, &ParseLiteralError{Literal: describeLiteral(node), Err: err}
	}
	return ms, nil
}

// ValueToLiteral wraps the default string form of v in a string literal.
func (d *DateTime) ValueToLiteral(v any) ast.Value {
	return ast.NewStringValue(&ast.StringValue{Value: fmt.Sprint(v)})
}

func (d *DateTime) parse(s string) (int64, error) {
	if !localDateTime.MatchString(s) {
		return 0, fmt.Errorf("%w, got %q", ErrMalformed, s)
	}
	layout := layoutSeconds
	if len(s) == len(layoutMinutes) {
		layout = layoutMinutes
	}
	t, err := time.ParseInLocation(layout, s, d.loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return t.UnixMilli(), nil
}

func toMillis(v any) (int64, error) {
	if v == nil {
		return 0, ErrNullValue
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, ErrNullValue
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w, %d overflows int64", ErrNotInteger, u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("%w, got %T", ErrNotInteger, v)
}

func describeLiteral(node ast.Value) string {
	if node == nil {
		return "<nil>"
	}
	if rv := reflect.ValueOf(node); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%v)", node.GetKind(), node.GetValue())
}
