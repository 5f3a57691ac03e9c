// Package domainerrors defines the coded errors the game services return.
// Stores surface sentinel errors; services wrap them into one of these codes
// so handlers can translate failures into HTTP responses without inspecting
// error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation           Code = "validation"
	CodeBadRequest           Code = "bad_request"
	CodeNotFound             Code = "not_found"
	CodeConflict             Code = "conflict"
	CodeInvalidState         Code = "invalid_state"
	CodeInsufficientResource Code = "insufficient_resource"
	CodeCatalogUnavailable   Code = "catalog_unavailable"
	CodeUnauthorized         Code = "unauthorized"
	CodeTimeout              Code = "timeout"
	CodeInternal             Code = "internal"
)

// GameError carries a machine-readable code alongside a human-readable message.
type GameError struct {
	Code    Code
	Message string
	cause   error
}

func (e *GameError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error { return e.cause }

func New(code Code, message string) error {
	return &GameError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) error {
	return &GameError{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// MessageOf extracts the human-readable message, falling back to Error().
func MessageOf(err error) string {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}

// CodeOf extracts the code, defaulting to CodeInternal for unexpected errors.
func CodeOf(err error) Code {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the status the transport layer should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidState, CodeInsufficientResource:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
