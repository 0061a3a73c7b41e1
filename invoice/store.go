package invoice

import (
	"context"

	"github.com/xraph/billing/id"
)

// Store is the invoice persistence fragment implemented by the ledger
// backends.
type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, invID id.InvoiceID) (*Invoice, error)
	List(ctx context.Context, opts ListOpts) ([]*Invoice, error)
	// Update overwrites the full invoice record: amount, customer and status.
	Update(ctx context.Context, inv *Invoice) error
	ListPending(ctx context.Context) ([]*Invoice, error)
}

// ListOpts filters invoice listings.
type ListOpts struct {
	CustomerID id.CustomerID
	Status     Status
	Limit      int
	Offset     int
}
