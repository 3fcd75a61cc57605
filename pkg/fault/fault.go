package fault

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidTypeTransition = errors.New("question type cannot change after creation")
	ErrInvalidPayload        = errors.New("field does not apply to question type")
	ErrSelfReference         = errors.New("condition cannot reference its own question")
	ErrDanglingCondition     = errors.New("condition source question does not exist")
	ErrStaleConditionAnswer  = errors.New("condition answer is not an option of the source question")
	ErrConditionDisabled     = errors.New("conditional logic is disabled")
	ErrNoSource              = errors.New("no source question selected")
	ErrDuplicateID           = errors.New("identifier already issued")
	ErrRequiredAnswer        = errors.New("required question not answered")
	ErrInvalidAnswer         = errors.New("answer does not fit question")
)

// ErrorType tells callers who is at fault for an error.
type ErrorType int

const (
	// ErrClient marks a rejected request, such as an invalid edit or answer.
	ErrClient ErrorType = iota
	// ErrInternal marks a broken invariant inside the survey model.
	ErrInternal
)

// Fault wraps a sentinel error with a message and an ErrorType. Use
// errors.Is against the sentinels and IsClientError or IsInternalError for
// the category.
type Fault struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Fault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.typeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.typeString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

// typeString returns a human-readable representation of the error type.
func (e *Fault) typeString() string {
	switch e.Type {
	case ErrClient:
		return "ClientError"
	case ErrInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// NewClientError creates a new client error.
func NewClientError(msg string, err error) error {
	return &Fault{
		Type:    ErrClient,
		Message: msg,
		Err:     err,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(msg string, err error) error {
	return &Fault{
		Type:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Clientf formats a client error message around a sentinel.
func Clientf(err error, format string, args ...any) error {
	return NewClientError(fmt.Sprintf(format, args...), err)
}

// IsClientError checks if an error is a client error.
func IsClientError(err error) bool {
	var ce *Fault
	if errors.As(err, &ce) {
		return ce.Type == ErrClient
	}
	return false
}

// IsInternalError checks if an error is an internal error.
func IsInternalError(err error) bool {
	var ce *Fault
	if errors.As(err, &ce) {
		return ce.Type == ErrInternal
	}
	return false
}
