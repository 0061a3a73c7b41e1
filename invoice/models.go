// Package invoice defines the invoice domain model consumed by the billing
// engine. Invoices are created upstream; the engine only reads them and
// proposes status transitions after charging.
package invoice

import (
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/types"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice is a single amount owed by a customer.
type Invoice struct {
	types.Entity
	ID         id.InvoiceID  `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	Amount     types.Money   `json:"amount"`
	Status     Status        `json:"status"`
}

// WithStatus returns a copy of the invoice with the given status.
func (i *Invoice) WithStatus(s Status) *Invoice {
	c := *i
	c.Status = s
	return &c
}
