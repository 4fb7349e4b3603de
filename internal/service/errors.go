package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure
type Kind string

const (
	KindValidation Kind = "validation"
	KindReference  Kind = "reference"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
)

// HTTPStatus returns the status code a transport should answer with
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindReference:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a structured domain failure. Two errors match under errors.Is when
// their kinds are equal.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrReference  = &Error{Kind: KindReference}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
)

func ValidationError(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// ReferenceError reports caller-supplied ids that did not resolve
func ReferenceError(entity string, missing []uint) *Error {
	return &Error{
		Kind:    KindReference,
		Message: fmt.Sprintf("referenced %s not found: %v", entity, missing),
		Details: map[string]any{entity: missing},
	}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func ConflictErrorWrap(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, cause: cause}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// AsError extracts the domain error from err, if any
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
