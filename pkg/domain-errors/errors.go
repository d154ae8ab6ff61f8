// Package domainerrors defines the coded errors services return to transport
// adapters. Stores never construct these; they return sentinel errors which the
// service layer translates.
package domainerrors

import (
	"errors"
	"strings"
)

// Code classifies a domain error. The string value is what clients see in the
// "error" field of the JSON envelope.
type Code string

const (
	CodeValidation   Code = "validation_error"
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Error is a domain error carrying a code, a client-safe message, the offending
// fields for validation failures, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a domain error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewFields builds a domain error naming the offending fields.
func NewFields(code Code, msg string, fields ...string) error {
	return &Error{Code: code, Message: msg, Fields: fields}
}

// Wrap attaches a code and message to an underlying error. Returns nil when err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	var fields []string
	var de *Error
	if errors.As(err, &de) {
		fields = de.Fields
	}
	return &Error{Code: code, Message: msg, Fields: fields, Err: err}
}

// As extracts the outermost domain error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error in err has the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// FieldsOf returns the offending fields recorded on err, if any.
func FieldsOf(err error) []string {
	if de, ok := As(err); ok {
		return de.Fields
	}
	return nil
}
