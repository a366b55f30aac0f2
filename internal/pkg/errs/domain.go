package errs

import (
	"errors"
	"fmt"
)

var (
	ErrOwnershipMismatch   = errors.New("ownership mismatch")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrComplianceRejected  = errors.New("compliance rejected")
	ErrExternalService     = errors.New("external service failure")
)

// OwnershipMismatchError is returned when an entity exists but belongs to a
// different order or caller than the one named in the request.
type OwnershipMismatchError struct {
	Entity string
	ID     any
	Owner  any
}

// NewOwnershipMismatchError reports that entity id is owned by someone other
// than owner.
func NewOwnershipMismatchError(entity string, id, owner any) *OwnershipMismatchError {
	return &OwnershipMismatchError{Entity: entity, ID: id, Owner: owner}
}

// Error names the entity, its id and the caller it was checked against.
func (e *OwnershipMismatchError) Error() string {
	return fmt.Sprintf("%s: %s %v does not belong to %v", ErrOwnershipMismatch, e.Entity, e.ID, e.Owner)
}

// Unwrap returns ErrOwnershipMismatch.
func (e *OwnershipMismatchError) Unwrap() error {
	return ErrOwnershipMismatch
}

// InvalidTransitionError is returned when an operation is not allowed in the
// current state of its subject.
type InvalidTransitionError struct {
	Subject string
	Reason  string
}

// NewInvalidTransitionError reports that subject cannot change for reason.
func NewInvalidTransitionError(subject, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{Subject: subject, Reason: reason}
}

// Error names the subject and the reason.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidTransition, sanitize(e.Subject), sanitize(e.Reason))
}

// Unwrap returns ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrencyConflictError reports a lost race that survived the retry budget.
type ConcurrencyConflictError struct {
	Resource string
	Attempts int
	Cause    error
}

// NewConcurrencyConflictError reports that resource stayed contended after
// attempts tries; cause is the last conflict seen.
func NewConcurrencyConflictError(resource string, attempts int, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Resource: resource, Attempts: attempts, Cause: cause}
}

// Error names the resource and the number of attempts.
func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s after %d attempts (cause: %v)", ErrConcurrencyConflict, e.Resource, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("%s: %s after %d attempts", ErrConcurrencyConflict, e.Resource, e.Attempts)
}

// Unwrap returns ErrConcurrencyConflict.
func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// ComplianceRejectedError is returned when a driver lacks documents the order
// requires. Missing lists the document types.
type ComplianceRejectedError struct {
	DriverID any
	Missing  []string
}

// NewComplianceRejectedError reports the document types driverID is missing.
func NewComplianceRejectedError(driverID any, missing []string) *ComplianceRejectedError {
	return &ComplianceRejectedError{DriverID: driverID, Missing: missing}
}

// Error lists the missing document types.
func (e *ComplianceRejectedError) Error() string {
	return fmt.Sprintf("%s: driver %v is missing approved documents %v", ErrComplianceRejected, e.DriverID, e.Missing)
}

// Unwrap returns ErrComplianceRejected.
func (e *ComplianceRejectedError) Unwrap() error {
	return ErrComplianceRejected
}

// ExternalServiceError wraps a failure of a collaborator (routing solver,
// live store, event bus). errors.Is matches both ErrExternalService and the cause.
type ExternalServiceError struct {
	Service string
	Cause   error
}

// NewExternalServiceError wraps a failure of service.
func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Cause: cause}
}

// Error names the service and the cause.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalService, e.Service, e.Cause)
}

// Unwrap returns ErrExternalService and the cause.
func (e *ExternalServiceError) Unwrap() []error {
	return []error{ErrExternalService, e.Cause}
}
