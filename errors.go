package gqlreq

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of request compilation.
// None of them is transient: each one points at a schema or caller defect.
var (
	// ErrInvalidName is returned when a model or operation name is not a GraphQL identifier.
	ErrInvalidName = errors.New("gqlreq: invalid name")

	// ErrRequiredFieldMissing is returned when a required field is null at serialization.
	ErrRequiredFieldMissing = errors.New("gqlreq: required field missing")

	// ErrUnknownField is returned when a predicate references a field absent from the schema.
	ErrUnknownField = errors.New("gqlreq: unknown field")

	// ErrUnsupportedOperation is returned for operation kinds that have no document builder.
	ErrUnsupportedOperation = errors.New("gqlreq: unsupported operation")

	// ErrInvalidPredicate is returned when a predicate tree cannot be expressed
	// in the backend filter grammar.
	ErrInvalidPredicate = errors.New("gqlreq: invalid predicate")

	// ErrValidation is returned when a built document is rejected by the backend schema.
	ErrValidation = errors.New("gqlreq: validation failed")
)

// InvalidNameError represents a malformed model or operation name.
type InvalidNameError struct {
	Name   string // The offending name
	Reason string // Optional detail
}

// Error returns the error string.
func (e *InvalidNameError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("gqlreq: invalid name %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("gqlreq: invalid name %q", e.Name)
}

// Is reports whether the target error matches InvalidNameError.
func (e *InvalidNameError) Is(err error) bool {
	return err == ErrInvalidName
}

// NewInvalidNameError returns a new InvalidNameError.
func NewInvalidNameError(name, reason string) *InvalidNameError {
	return &InvalidNameError{Name: name, Reason: reason}
}

// IsInvalidName returns true if the error is an InvalidNameError.
func IsInvalidName(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidNameError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidName)
}

// RequiredFieldMissingError represents a required field that was null
// on the instance being serialized.
type RequiredFieldMissingError struct {
	Model string
	Field string
}

// Error returns the error string.
func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("gqlreq: required field %q of %s is missing", e.Field, e.Model)
}

// Is reports whether the target error matches RequiredFieldMissingError.
func (e *RequiredFieldMissingError) Is(err error) bool {
	return err == ErrRequiredFieldMissing
}

// NewRequiredFieldMissingError returns a new RequiredFieldMissingError.
func NewRequiredFieldMissingError(model, field string) *RequiredFieldMissingError {
	return &RequiredFieldMissingError{Model: model, Field: field}
}

// IsRequiredFieldMissing returns true if the error is a RequiredFieldMissingError.
func IsRequiredFieldMissing(err error) bool {
	if err == nil {
		return false
	}
	var e *RequiredFieldMissingError
	return errors.As(err, &e) || errors.Is(err, ErrRequiredFieldMissing)
}

// UnknownFieldError represents a predicate that references a field
// the model schema does not declare.
type UnknownFieldError struct {
	Model string
	Field string
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("gqlreq: %s has no field %q", e.Model, e.Field)
}

// Is reports whether the target error matches UnknownFieldError.
func (e *UnknownFieldError) Is(err error) bool {
	return err == ErrUnknownField
}

// NewUnknownFieldError returns a new UnknownFieldError.
func NewUnknownFieldError(model, field string) *UnknownFieldError {
	return &UnknownFieldError{Model: model, Field: field}
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownField)
}

// UnsupportedOperationError represents an operation kind without a document builder.
type UnsupportedOperationError struct {
	Operation Operation
	Verb      string
}

// Error returns the error string.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("gqlreq: unsupported %s %q", e.Operation, e.Verb)
}

// Is reports whether the target error matches UnsupportedOperationError.
func (e *UnsupportedOperationError) Is(err error) bool {
	return err == ErrUnsupportedOperation
}

// NewUnsupportedOperationError returns a new UnsupportedOperationError.
func NewUnsupportedOperationError(op Operation, verb string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Operation: op, Verb: verb}
}

// IsUnsupportedOperation returns true if the error is an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedOperationError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedOperation)
}

// InvalidPredicateError represents a predicate node the filter grammar cannot express.
type InvalidPredicateError struct {
	Expr   string // String form of the offending node
	Reason string
}

// Error returns the error string.
func (e *InvalidPredicateError) Error() string {
	return fmt.Sprintf("gqlreq: invalid predicate %s: %s", e.Expr, e.Reason)
}

// Is reports whether the target error matches InvalidPredicateError.
func (e *InvalidPredicateError) Is(err error) bool {
	return err == ErrInvalidPredicate
}

// NewInvalidPredicateError returns a new InvalidPredicateError.
func NewInvalidPredicateError(expr, reason string) *InvalidPredicateError {
	return &InvalidPredicateError{Expr: expr, Reason: reason}
}

// IsInvalidPredicate returns true if the error is an InvalidPredicateError.
func IsInvalidPredicate(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidPredicateError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidPredicate)
}

// ValidationError represents a document or variable set rejected by the backend schema.
type ValidationError struct {
	OperationName string
	Errors        []error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("gqlreq: %s rejected by schema: %v", e.OperationName, e.Errors[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "gqlreq: %s rejected by schema:", e.OperationName)
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the underlying errors.
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// Is reports whether the target error matches ValidationError.
func (e *ValidationError) Is(err error) bool {
	return err == ErrValidation
}

// NewValidationError returns a new ValidationError if there are errors,
// otherwise returns nil.
func NewValidationError(operationName string, errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &ValidationError{OperationName: operationName, Errors: filtered}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// OperationError attaches the operation being built to a component error.
// The component error is reachable through errors.As and errors.Is.
type OperationError struct {
	Operation Operation // query, mutation or subscription
	Verb      string    // e.g. "create", "list", "onDelete"
	Model     string    // Model name, empty when it could not be determined
	Err       error
}

// Error returns the error string.
func (e *OperationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("gqlreq: building %s %s %s: %v", e.Operation, e.Verb, e.Model, e.Err)
	}
	return fmt.Sprintf("gqlreq: building %s %s: %v", e.Operation, e.Verb, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError returns a new OperationError.
func NewOperationError(kind OperationKind, model string, err error) *OperationError {
	return &OperationError{Operation: kind.Operation(), Verb: kind.Verb(), Model: model, Err: err}
}
