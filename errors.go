package billing

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("billing: not found")
	ErrAlreadyExists = errors.New("billing: already exists")
	ErrInvalidInput  = errors.New("billing: invalid input")

	// Customer errors
	ErrCustomerNotFound = errors.New("billing: customer not found")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("billing: invoice not found")
	// ErrInvalidInvoiceStatus signals an invoice status outside the
	// pending/paid model reached reconciliation. This is an invariant
	// violation upstream, not a recoverable data condition.
	ErrInvalidInvoiceStatus = errors.New("billing: invalid invoice status")

	// Payment errors
	ErrPaymentNotFound = errors.New("billing: payment not found")

	// Run errors
	ErrRunInProgress = errors.New("billing: run already in progress")

	// Store errors
	ErrStoreNotReady     = errors.New("billing: store not ready")
	ErrStoreClosed       = errors.New("billing: store is closed")
	ErrTransactionFailed = errors.New("billing: transaction failed")
	ErrMigrationFailed   = errors.New("billing: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("billing: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsRetryable returns true if the error is temporary and the operation can be
// retried in a later run.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrRunInProgress)
}
