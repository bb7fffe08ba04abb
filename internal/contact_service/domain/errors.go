package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no contact matches the requested email.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateEntry indicates that a contact with the same email already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrInvalidContact indicates that a contact failed its aggregate validity check.
	ErrInvalidContact = errors.New("invalid contact")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidPhoneType indicates a phone category outside the known set.
	ErrInvalidPhoneType = errors.New("invalid phone type")
	// ErrPhoneIndexOutOfRange indicates a phone index outside the contact's phone list.
	ErrPhoneIndexOutOfRange = errors.New("phone index out of range")

	// ErrDocumentNotFound is returned by a DocumentStore when no document exists yet.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMalformedDocument indicates a persisted document or record that cannot be decoded.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrPersistence indicates that the backing document could not be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrDroppedRecords is returned by a strict load when invalid records were found.
	ErrDroppedRecords = errors.New("invalid records in document")
)

// ValidationError reports which field was rejected and why.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
