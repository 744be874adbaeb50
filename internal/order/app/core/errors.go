package core

import "errors"

var (
	ErrLocationNotFound = errors.New("location does not exist")
	ErrLocationClosed   = errors.New("location is closed")

	// ErrOrderNotFound covers both a genuinely missing order and a
	// cross-shop access attempt; the two must stay indistinguishable so
	// order existence never leaks across tenants.
	ErrOrderNotFound = errors.New("order does not exist")

	// ErrNumberSpaceExhausted means the allocator gave up after its retry
	// budget. Retryable: the caller may simply resubmit.
	ErrNumberSpaceExhausted = errors.New("order number space exhausted")
)

// Messages used in field-level validation errors.
const (
	MsgEmptyValue   = "Empty value"
	MsgInvalidValue = "Invalid value"
)

// FieldError is one field-level problem with a request.
type FieldError struct {
	Value string `json:"value,omitempty"`
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

// ValidationError collects every field problem found in a request, so a
// client can display all of them at once instead of fixing one at a time.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validation wraps collected field errors, returning nil for an empty list.
func Validation(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
