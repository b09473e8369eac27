package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes handlers map onto HTTP statuses.
// Anything not matching one of these surfaces as a persistence failure (500).
var (
	// ErrValidation means the request payload is malformed or inconsistent.
	ErrValidation = errors.New("invalid request")

	// ErrInvalidCredentials means login or token refresh failed authentication.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid means mark-paid was called on a Paid invoice.
	ErrAlreadyPaid = errors.New("invoice already paid")

	// ErrInvoiceLocked means an item or totals mutation was attempted after
	// the invoice transitioned to Paid.
	ErrInvoiceLocked = errors.New("invoice is paid and can no longer be edited")

	// ErrForbidden means the caller is not allowed to touch the record
	// (e.g. only a goal's creator may update it).
	ErrForbidden = errors.New("not allowed")
)

// badInput marks a field-level problem as ErrValidation so handlers answer
// with a 400 instead of treating it as a persistence failure.
func badInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
