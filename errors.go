package wabridge

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure reported by the bridge
type ErrorKind string

const (
	// KindConnection means the bridge answered 500: it cannot reach WhatsApp
	KindConnection ErrorKind = "CONNECTION_FAILED"
	// KindValidation means the bridge answered 400: the request was rejected
	KindValidation ErrorKind = "VALIDATION_FAILED"
	// KindBridge covers every other non-200 answer
	KindBridge ErrorKind = "BRIDGE_ERROR"
)

// unknownError is reported when the bridge gives no usable error message
const unknownError = "Unknown error"

// Sentinels for errors.Is matching against an *Error of the same kind
var (
	ErrConnection = &Error{Kind: KindConnection}
	ErrValidation = &Error{Kind: KindValidation}
	ErrBridge     = &Error{Kind: KindBridge}

	// ErrClientClosed is returned by operations issued after Close
	ErrClientClosed = errors.New("wabridge: client is closed")
)

// Error is a non-200 answer from the bridge
type Error struct {
	Kind       ErrorKind `json:"code"`
	Message    string    `json:"error"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (status %d: %v)", e.Kind, e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// newError builds the error for a bridge status code
func newError(statusCode int, message string) *Error {
	if message == "" {
		message = unknownError
	}
	return &Error{
		Kind:       kindForStatus(statusCode),
		Message:    message,
		StatusCode: statusCode,
	}
}

// kindForStatus maps HTTP status codes to error kinds
func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusInternalServerError:
		return KindConnection
	case http.StatusBadRequest:
		return KindValidation
	default:
		return KindBridge
	}
}

// IsConnectionError reports whether err is a connectivity-class bridge error
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsValidationError reports whether err is a validation-class bridge error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
