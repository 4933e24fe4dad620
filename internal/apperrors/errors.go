// Package apperrors defines the tagged error kinds returned at every
// engine boundary, so callers can branch on the kind of failure without
// string matching. Validation-class kinds are never retried; callers
// retry infrastructure failures with the same idempotent inputs.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of engine failure.
type Kind string

const (
	KindRaffleNotFound          Kind = "RAFFLE_NOT_FOUND"
	KindRaffleNotActive         Kind = "RAFFLE_NOT_ACTIVE"
	KindInvalidEntry            Kind = "INVALID_ENTRY"
	KindMaxEntriesExceeded      Kind = "MAX_ENTRIES_EXCEEDED"
	KindInvalidStatusTransition Kind = "INVALID_STATUS_TRANSITION"
	KindNoEntriesForDraw        Kind = "NO_ENTRIES_FOR_DRAW"
	KindPayoutAlreadyProcessed  Kind = "PAYOUT_ALREADY_PROCESSED"
	KindPayoutNotFound          Kind = "PAYOUT_NOT_FOUND"
	KindValidation              Kind = "VALIDATION_ERROR"
	KindUnauthorized            Kind = "UNAUTHORIZED"
	KindInternal                Kind = "INTERNAL_ERROR"
)

// Error is a tagged engine error. Two Errors match under errors.Is when
// their kinds are equal, regardless of message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so sentinel values below work as
// errors.Is targets.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is checks.
var (
	ErrRaffleNotFound          = &Error{Kind: KindRaffleNotFound}
	ErrRaffleNotActive         = &Error{Kind: KindRaffleNotActive}
	ErrInvalidEntry            = &Error{Kind: KindInvalidEntry}
	ErrMaxEntriesExceeded      = &Error{Kind: KindMaxEntriesExceeded}
	ErrInvalidStatusTransition = &Error{Kind: KindInvalidStatusTransition}
	ErrNoEntriesForDraw        = &Error{Kind: KindNoEntriesForDraw}
	ErrPayoutAlreadyProcessed  = &Error{Kind: KindPayoutAlreadyProcessed}
	ErrPayoutNotFound          = &Error{Kind: KindPayoutNotFound}
	ErrValidation              = &Error{Kind: KindValidation}
	ErrUnauthorized            = &Error{Kind: KindUnauthorized}
)

// New creates a tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and context message.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code its kind is reported with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindRaffleNotFound, KindPayoutNotFound:
		return http.StatusNotFound
	case KindInvalidEntry, KindValidation:
		return http.StatusBadRequest
	case KindRaffleNotActive, KindMaxEntriesExceeded, KindInvalidStatusTransition,
		KindNoEntriesForDraw, KindPayoutAlreadyProcessed:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
