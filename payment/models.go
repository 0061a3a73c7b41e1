// Package payment defines the ledger payment record written after every
// charge attempt.
package payment

import (
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/types"
)

// Status is the outcome recorded for a charge attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payment is the durable record of one charge attempt against a customer's
// invoice. Records accumulate over time; eligibility consults only the most
// recent one per customer.
type Payment struct {
	types.Entity
	ID         id.PaymentID  `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	InvoiceID  id.InvoiceID  `json:"invoice_id"`
	// LastBilled is the date the charge was attempted. A nil date means the
	// record exists but the customer was never actually billed, which keeps
	// the customer eligible.
	LastBilled *types.Date `json:"last_billed,omitempty"`
	Status     Status      `json:"status"`
}
