// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/CLI output by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates user input failed business rule validation.
	ErrValidation = errors.New("validation failed")

	// ErrDecode indicates a payload could not be decoded into quotes.
	ErrDecode = errors.New("decode failed")

	// ErrTransport indicates a remote source could not be reached or answered badly.
	ErrTransport = errors.New("transport failed")

	// ErrPersistence indicates the durable snapshot could not be written or read.
	ErrPersistence = errors.New("persistence failed")

	// ErrNoneAvailable indicates no quote matches the active filter.
	ErrNoneAvailable = errors.New("no quotes available")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DecodeError reports why a payload was rejected.
// Index is the offending array element, or -1 when the whole payload is bad.
type DecodeError struct {
	Source string
	Index  int
	Cause  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decoding %s: element %d: %v", e.Source, e.Index, e.Cause)
	}

	return fmt.Sprintf("decoding %s: %v", e.Source, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Cause}
}

// NewDecodeError creates a decode error for the whole payload.
func NewDecodeError(source string, cause error) error {
	return &DecodeError{Source: source, Index: -1, Cause: cause}
}

// NewElementDecodeError creates a decode error for one array element.
func NewElementDecodeError(source string, index int, cause error) error {
	return &DecodeError{Source: source, Index: index, Cause: cause}
}

// TransportError provides context for remote fetch failures.
type TransportError struct {
	Source string
	Reason string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("remote source %q unavailable: %s", e.Source, e.Reason)
	}

	return fmt.Sprintf("remote source %q unavailable", e.Source)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// NewTransportError creates a transport error with context.
func NewTransportError(source, reason string) error {
	return &TransportError{Source: source, Reason: reason}
}

// PersistenceError reports a failed durable write or read.
// The in-memory collection stays valid; only durability is lost.
type PersistenceError struct {
	Slot  string
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s slot %q: %v", e.Op, e.Slot, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Cause}
}

// NewPersistenceError creates a persistence error for a slot operation.
func NewPersistenceError(op, slot string, cause error) error {
	return &PersistenceError{Op: op, Slot: slot, Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsPersistence checks if an error is a persistence error.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsNoneAvailable checks if an error signals an empty candidate set.
func IsNoneAvailable(err error) bool {
	return errors.Is(err, ErrNoneAvailable)
}
