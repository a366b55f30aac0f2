// Package errs provides standardized error types for the multistop application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two families of errors:
//   - validation errors: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - domain outcome errors: ObjectNotFoundError, OwnershipMismatchError,
//     InvalidTransitionError, ConcurrencyConflictError, ComplianceRejectedError,
//     ExternalServiceError
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Callers at the edge (HTTP, jobs) classify errors with errors.Is against the
// sentinels and never inspect message text.
package errs
