// Package apperr defines the machine-readable error taxonomy surfaced by the
// simulator to its callers.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeValidation covers unknown intervention types, out-of-range
	// horizon or ensemble sizes and negative intensities or adherence.
	CodeValidation Code = "VALIDATION"

	// CodeInsufficientData is returned when an individual baseline cannot
	// be built because no check-ins exist.
	CodeInsufficientData Code = "INSUFFICIENT_DATA"

	// CodeConfiguration covers wiring mistakes such as a missing score function.
	CodeConfiguration Code = "CONFIGURATION"
)

// Error is a domain error carrying a Code and, for validation failures, the
// offending field.
type Error struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validation builds a CodeValidation error for field.
func Validation(field, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientData builds a CodeInsufficientData error.
func InsufficientData(format string, args ...any) *Error {
	return &Error{Code: CodeInsufficientData, Message: fmt.Sprintf(format, args...)}
}

// Configuration builds a CodeConfiguration error.
func Configuration(format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether any error in err's chain is an *Error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
