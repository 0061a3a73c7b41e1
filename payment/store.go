package payment

import (
	"context"

	"github.com/xraph/billing/id"
	"github.com/xraph/billing/types"
)

// Store is the payment persistence fragment implemented by the ledger
// backends.
type Store interface {
	// Create appends a new payment record. Backends may decline silently by
	// returning (nil, nil); the engine treats that as a documented no-op.
	Create(ctx context.Context, customerID id.CustomerID, invoiceID id.InvoiceID, status Status, billedOn types.Date) (*Payment, error)
	// LastForCustomer returns the most recent payment record for the
	// customer, or a not-found error if the customer was never billed.
	LastForCustomer(ctx context.Context, customerID id.CustomerID) (*Payment, error)
	List(ctx context.Context, customerID id.CustomerID, opts ListOpts) ([]*Payment, error)
}

// ListOpts filters payment listings.
type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
