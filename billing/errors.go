package billing

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected input. Any operation returning one has
// left the cart exactly as it was.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func errValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ErrInvoiceNotFound is returned by the history gateway when no stored
// invoice matches the requested id for the requesting owner.
var ErrInvoiceNotFound = errors.New("invoice not found")
