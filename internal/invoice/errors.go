package invoice

import (
	"errors"
	"fmt"
)

// ErrContextCanceled is returned when generation is canceled via context.
var ErrContextCanceled = errors.New("invoice generation was canceled")

// ComputationError wraps a failure with the invoice it concerns. The
// underlying error is usually a *models.FieldError carrying the input path.
type ComputationError struct {
	// Op is the operation that failed (e.g. "Compute", "Build").
	Op string

	// Err is the underlying error.
	Err error

	// InvoiceNumber identifies the invoice being processed, if known.
	InvoiceNumber string
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	if e.InvoiceNumber != "" {
		return fmt.Sprintf("invoice %s: %s failed: %v", e.InvoiceNumber, e.Op, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ComputationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ComputationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewComputationError creates a ComputationError.
func NewComputationError(op string, err error, invoiceNumber string) *ComputationError {
	return &ComputationError{
		Op:            op,
		Err:           err,
		InvoiceNumber: invoiceNumber,
	}
}

// WrapComputationError wraps err unless it already is a ComputationError.
func WrapComputationError(op string, err error, invoiceNumber string) error {
	if err == nil {
		return nil
	}

	var ce *ComputationError
	if errors.As(err, &ce) {
		return err
	}

	return NewComputationError(op, err, invoiceNumber)
}
