package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so callers can react to the category
// (retry with different input, refresh state, stop editing) without
// inspecting individual codes.
type ErrorKind string

const (
	// KindValidation is a user-correctable problem with the submitted document.
	KindValidation ErrorKind = "VALIDATION"
	// KindConservation means concurrent documents already consumed the quantity.
	KindConservation ErrorKind = "CONSERVATION"
	// KindStock is raised only while posting, when a batch cannot absorb a delta.
	KindStock ErrorKind = "STOCK"
	// KindImmutable is an attempted change to a Posted or Cancelled document.
	KindImmutable ErrorKind = "IMMUTABLE"
	// KindNotFound is a missing aggregate or reference record.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindConflict is an optimistic-lock failure.
	KindConflict ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) works for errors carrying details.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *DomainError) clone() *DomainError {
	cp := &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message}
	if len(e.Details) > 0 {
		cp.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			cp.Details[k] = v
		}
	}
	return cp
}

// WithDetail returns a copy of the error with key set to value.
// Sentinel errors are never mutated.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	cp := e.clone()
	if cp.Details == nil {
		cp.Details = make(map[string]any, 1)
	}
	cp.Details[key] = value
	return cp
}

// WithMessage returns a copy of the error with a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	cp := e.clone()
	cp.Message = fmt.Sprintf(format, args...)
	return cp
}

// Detail returns the detail stored under key.
func (e *DomainError) Detail(key string) (any, bool) {
	if e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return NewKindError(KindValidation, code, message)
}

// NewKindError creates a domain error of the given kind
func NewKindError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of a domain error. Errors that are not domain
// errors are infrastructure failures and report ok=false.
func KindOf(err error) (ErrorKind, bool) {
	de, ok := AsDomainError(err)
	if !ok {
		return "", false
	}
	return de.Kind, true
}

// Common domain errors
var (
	ErrNotFound            = NewKindError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewKindError(KindConflict, "CONCURRENT_MODIFICATION", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
)
