// Package apperr defines the typed error kinds every business operation
// returns. Handlers map kinds to HTTP statuses at the edge; nothing in
// the stores or policies knows about HTTP.
//
// Propagation policy: rule violations are recovered at the operation
// boundary and returned as one of these kinds. Only genuine store or
// infrastructure failures surface as Internal, and those are logged by
// the handler, not retried.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure.
type Kind int

const (
	// Unauthenticated: the credential is missing, malformed, expired,
	// or tampered with.
	Unauthenticated Kind = iota + 1
	// InvalidArgument: malformed id, missing required field, invalid
	// enum value, or bad date ordering.
	InvalidArgument
	// NotFound: the resource, or any transitively linked parent, is
	// absent.
	NotFound
	// Forbidden: the identity resolved but matches no capability rule.
	Forbidden
	// Conflict: a uniqueness or capacity constraint was violated
	// (discussion already exists, email taken, sold out, one ticket per
	// buyer per event).
	Conflict
	// AlreadyInTerminalState: the ticket is already used or cancelled.
	AlreadyInTerminalState
	// Internal: a store or verification failure not attributable to
	// caller input.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case InvalidArgument:
		return "invalid_argument"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case AlreadyInTerminalState:
		return "already_in_terminal_state"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// HTTPStatus maps a kind to the status the JSON layer responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Conflict, AlreadyInTerminalState:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is a classified failure with a caller-facing message and an
// optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error without losing it.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or Internal when err carries none.
// A nil err has no kind; callers must check err != nil first.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Message returns the caller-facing message of err, or a generic one
// for unclassified errors so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
