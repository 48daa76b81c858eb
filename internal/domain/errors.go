package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports malformed or out-of-range user input. It is raised
// before any backend call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given user-visible message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a local input-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BackendError is a typed rejection returned by the commerce backend
// (invalid coupon, insufficient points, order-state conflict). Its message
// is surfaced to the user verbatim and never retried automatically.
type BackendError struct {
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// IsBackend reports whether err is a typed backend rejection.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
