package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	ErrUnauthenticated
	ErrUnknownCategory
	ErrUnselectedCategory
	ErrGateway
	ErrPending
)

var kindNames = map[Kind]string{
	ErrInternal:           "internal",
	ErrNotFound:           "not_found",
	ErrValidation:         "validation",
	ErrConflict:           "conflict",
	ErrInvalidInput:       "invalid_input",
	ErrUnauthenticated:    "not_authenticated",
	ErrUnknownCategory:    "unknown_category",
	ErrUnselectedCategory: "unselected_category",
	ErrGateway:            "gateway",
	ErrPending:            "pending",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
// Errors that are not application errors are ErrInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// IsKind reports whether err carries an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated is returned when an operation needs a signed-in user.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}

// UnknownCategory is returned when a category id is not in the catalog.
func UnknownCategory(id string) *Error {
	return &Error{Kind: ErrUnknownCategory, Message: fmt.Sprintf("unknown category %q", id)}
}

// UnselectedCategory is returned when a weight is set for a category
// that is not part of the draft selection.
func UnselectedCategory(id string) *Error {
	return &Error{Kind: ErrUnselectedCategory, Message: fmt.Sprintf("category %q is not selected", id)}
}

// Gateway wraps a failure reported by the submission gateway. Message is
// shown to the user verbatim; pass err.Error() to keep the gateway's own text.
func Gateway(msg string, err error) *Error {
	return &Error{Kind: ErrGateway, Message: msg, Err: err}
}

// Pending is returned when an operation is refused because another one is in flight.
func Pending(msg string) *Error {
	return &Error{Kind: ErrPending, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
