// Package errs defines the error kinds surfaced to API callers.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error. Kinds are stable and appear in API responses.
type Kind string

const (
	KindMissingField        Kind = "missing_field"
	KindInvalidValue        Kind = "invalid_value"
	KindDuplicateIngredient Kind = "duplicate_ingredient"
	KindUnknownIngredient   Kind = "unknown_ingredient"
	KindUnknownTag          Kind = "unknown_tag"
	KindDuplicateName       Kind = "duplicate_name"
	KindInvalidImage        Kind = "invalid_image"
	KindAlreadyExists       Kind = "already_exists"
	KindNotFound            Kind = "not_found"
	KindInvalidOperation    Kind = "invalid_operation"
	KindForbidden           Kind = "forbidden"
	KindNotAuthenticated    Kind = "not_authenticated"
)

// Error is a caller-facing failure. Field names the offending input, if any.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind, so errors.Is(err, errs.NotFound(""))
// style comparisons work regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// StatusCode maps the kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotAuthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Message: fmt.Sprintf("%s required", field)}
}

func InvalidValue(field string) *Error {
	return &Error{Kind: KindInvalidValue, Field: field, Message: fmt.Sprintf("%s must be an integer greater than zero", field)}
}

func DuplicateIngredient() *Error {
	return &Error{Kind: KindDuplicateIngredient, Field: "ingredients", Message: "a recipe cannot have two of the same ingredient"}
}

func UnknownIngredient() *Error {
	return &Error{Kind: KindUnknownIngredient, Field: "ingredients", Message: "ingredients not found"}
}

func UnknownTag() *Error {
	return &Error{Kind: KindUnknownTag, Field: "tags", Message: "tags not found"}
}

func DuplicateName() *Error {
	return &Error{Kind: KindDuplicateName, Field: "name", Message: "a recipe with this name already exists"}
}

func InvalidImage(cause error) *Error {
	return &Error{Kind: KindInvalidImage, Field: "image", Message: "image could not be decoded", Cause: cause}
}

func AlreadyExists() *Error {
	return &Error{Kind: KindAlreadyExists, Message: "record already exists"}
}

func NotFound(what string) *Error {
	if what == "" {
		what = "record"
	}
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", what)}
}

func InvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "you do not have permission to perform this action"}
}

func NotAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated, Message: "authentication credentials were not provided"}
}
