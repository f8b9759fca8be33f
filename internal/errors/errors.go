package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"    // tool settings are unusable
	ErrNotFound = "NOT_FOUND" // a managed YAML file does not exist
	ErrParse    = "PARSE"     // a managed YAML file is malformed
	ErrSave     = "SAVE"      // backup or write of a managed file failed
	ErrActivate = "ACTIVATE"  // the restart command failed
	ErrValidate = "VALIDATE"  // operator input was rejected
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrSave code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrSave,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pemErr *Error
	if errors.As(err, &pemErr) {
		return pemErr.Code == code
	}
	return false
}

// IsFatal reports whether err must end the program rather than return to
// the menu: the primary document is missing or unreadable, or the tool
// settings are broken.
func IsFatal(err error) bool {
	return IsCode(err, ErrNotFound) || IsCode(err, ErrParse) || IsCode(err, ErrConfig)
}
