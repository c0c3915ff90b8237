package catan

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy surfaced to HTTP status codes by the handler
// layer: InvalidRequest->400, IllegalAction->400, NotFound->404,
// ProviderError->502, InternalError->500.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindIllegalAction  Kind = "illegal_action"
	KindNotFound       Kind = "not_found"
	KindProviderError  Kind = "provider_error"
	KindInternalError  Kind = "internal_error"
)

// Error is a typed, wrapped error carrying a Kind for status-code dispatch
// and a human-readable reason string for the client.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// InvalidRequest reports a malformed payload, unknown action, or
// out-of-range id.
func InvalidRequest(reason string) *Error { return newErr(KindInvalidRequest, reason) }

// IllegalAction reports a precondition violation: not rolled, occupied
// node, unaffordable, distance rule, connectivity.
func IllegalAction(reason string) *Error { return newErr(KindIllegalAction, reason) }

// NotFound reports an unknown game id.
func NotFound(reason string) *Error { return newErr(KindNotFound, reason) }

// ProviderError reports an LLM provider that is unreachable, timed out, or
// returned unparseable text.
func ProviderError(reason string, cause error) *Error {
	return &Error{Kind: KindProviderError, Reason: reason, Err: cause}
}

// InternalError reports an unexpected invariant violation.
func InternalError(reason string, cause error) *Error {
	return &Error{Kind: KindInternalError, Reason: reason, Err: cause}
}

// IsKind reports whether err (or anything it wraps) is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

var (
	// ErrGameNotFound is returned by the session registry for an unknown
	// game id.
	ErrGameNotFound = NotFound("game not found")
)
