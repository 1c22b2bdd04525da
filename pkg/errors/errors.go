// Package errors defines the typed errors the API speaks. Every error
// that reaches a handler carries a Code, and the code alone decides the
// HTTP status, whether the client may retry, and whether structured
// details are safe to expose.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata is the per-code response policy. PublicMessage is the
// fallback shown when the error's own message must not leak.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var codePolicy = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, false, "request validation failed", true},
	CodeUnauthorized:  {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:     {http.StatusForbidden, false, "you do not have access to this resource", false},
	CodeNotFound:      {http.StatusNotFound, false, "requested resource was not found", false},
	CodeConflict:      {http.StatusConflict, false, "resource conflict", false},
	CodeStateConflict: {http.StatusUnprocessableEntity, false, "operation not allowed in the current state", true},
	CodeIdempotency:   {http.StatusConflict, false, "idempotency key already used with a different request", true},
	CodeRateLimit:     {http.StatusTooManyRequests, true, "too many attempts, try again later", false},
	CodeInternal:      {http.StatusInternalServerError, true, "something went wrong", false},
	CodeDependency:    {http.StatusServiceUnavailable, true, "a service we depend on is unavailable", true},
}

// MetadataFor never fails; unknown codes get the internal policy.
func MetadataFor(code Code) Metadata {
	if meta, ok := codePolicy[code]; ok {
		return meta
	}
	return codePolicy[CodeInternal]
}

// Error is the canonical application error. Fields stay private so the
// only way to build one is New or Wrap, which forces a code choice.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and context message to an underlying cause.
// A nil cause degrades to New.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails sets structured details, typically field-level validation
// failures. Whether they reach the client is the code policy's call.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As walks the chain and returns the first typed *Error, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
