package usecase

import (
	"errors"

	"hackmap/internal/database"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the failure type returned by every usecase. Message is always safe
// to show to clients, including for internal failures; Cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind and message so a sentinel with a cause attached still
// compares equal to the bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

var (
	ErrInternal          = New(KindInternal, "internal server error")
	ErrDatabaseTimeout   = New(KindUnavailable, "Database connection timeout. Please try again.")
	ErrUnauthorized      = New(KindUnauthorized, "Unauthorized")
	ErrUserNotFound      = New(KindNotFound, "User not found")
	ErrHackathonNotFound = New(KindNotFound, "Hackathon not found")
)

func Invalid(message string) *Error {
	return New(KindInvalid, message)
}

// Internal classifies an unexpected repository error. Connection timeouts
// that survived retries surface as unavailable.
func Internal(err error) *Error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return ue
	}
	if errors.Is(err, database.ErrConnectionTimeout) {
		return ErrDatabaseTimeout.WithCause(err)
	}
	return ErrInternal.WithCause(err)
}

func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindInternal
}
