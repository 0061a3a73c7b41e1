// Package gateway abstracts the external payment provider.
//
// A charge has three possible outcomes: the provider accepted it, the
// provider declined it as a business decision, or the provider could not be
// consulted at all. The first two are values of Outcome; the third is a
// non-nil error. Callers must never fold a provider fault into a decline —
// a declined charge is a definitive FAILED payment, a fault is not.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/billing/invoice"
)

// Outcome is the provider's decision on a charge.
type Outcome string

const (
	// OutcomeSucceeded means the customer's account was charged the
	// invoiced amount.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeDeclined means the provider refused the charge, e.g. for
	// insufficient funds. This is a legitimate business outcome.
	OutcomeDeclined Outcome = "declined"
)

// Gateway is the payment provider capability consumed by the billing engine.
type Gateway interface {
	// Charge attempts to bill the invoiced amount to the invoice's customer.
	// A non-nil error signals a provider or transport fault; the charge may
	// or may not have happened and the invoice must be left untouched.
	Charge(ctx context.Context, inv *invoice.Invoice) (Outcome, error)
}

// Func adapts a plain function to the Gateway interface.
type Func func(ctx context.Context, inv *invoice.Invoice) (Outcome, error)

// Charge implements Gateway.
func (f Func) Charge(ctx context.Context, inv *invoice.Invoice) (Outcome, error) {
	return f(ctx, inv)
}

// Sentinel provider faults.
var (
	// ErrUnavailable signals the provider could not be reached.
	ErrUnavailable = errors.New("gateway: provider unavailable")
	// ErrRateLimited signals the provider rejected the request for load
	// reasons; the charge was not attempted.
	ErrRateLimited = errors.New("gateway: rate limited")
)

// Error is a provider-reported fault with a machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s: %s", e.Code, e.Message)
}
