package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common invoice computation errors
var (
	// ErrMissingPrerequisite is returned when a derived value cannot be computed
	// because an optional input it depends on is absent (e.g. a VAT rate while
	// VAT collection is enabled).
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrUnclassifiableRate is returned when a VAT rate is not present in the
	// configured rate table while VAT is collected.
	ErrUnclassifiableRate = errors.New("unclassifiable VAT rate")

	// ErrInvalidIdentifier is returned when a business identifier (SIREN, SIRET)
	// does not have the digit count required to derive or group it.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrDateParse is returned when a date string is not in DD/MM/YYYY form.
	ErrDateParse = errors.New("date parse failure")

	// ErrInvalidInput is returned by the structural validator.
	ErrInvalidInput = errors.New("invalid invoice input")
)

// FieldError wraps a computation failure with the operation and the path of
// the offending input field.
type FieldError struct {
	// Op is the operation that failed (e.g. "PaymentDate", "ClassifyRate").
	Op string

	// Field is the input path, e.g. "invoiced_items[2].vat_rate".
	Field string

	// Value is the offending value, if any.
	Value interface{}

	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invoice: %s failed for %s (value: %v): %v", e.Op, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed for %s: %v", e.Op, e.Field, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *FieldError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFieldError creates a FieldError for the given operation and field.
func NewFieldError(op, field string, value interface{}, err error) *FieldError {
	return &FieldError{
		Op:    op,
		Field: field,
		Value: value,
		Err:   err,
	}
}

// AtField re-targets a FieldError at the full input path. Other errors are
// returned unchanged.
func AtField(err error, field string) error {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return err
	}
	return NewFieldError(fe.Op, field, fe.Value, fe.Err)
}

// ValidationError represents a single structural violation in the input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every violation found in one input document.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%d validation error(s): %s", len(ve), strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrInvalidInput) true for any ValidationErrors.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}
