package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure for the API boundary. Internal causes stay
// server-side; only the kind and a safe message cross the wire.
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION_FAILED"
	KindUpload       Kind = "UPLOAD_FAILED"
	KindPersistence  Kind = "PERSISTENCE_FAILED"
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped internal error, if any. Meant for server-side
// logging only, never for serialization to callers.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUpload:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Upload(message string, cause error) *Error {
	return &Error{Kind: KindUpload, Message: message, cause: cause}
}

func Persistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, cause: cause}
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	if ae, ok := From(err); ok {
		return ae.Kind == kind
	}
	return false
}
