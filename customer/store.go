package customer

import (
	"context"

	"github.com/xraph/billing/id"
)

// Store is the customer persistence fragment implemented by the ledger
// backends.
type Store interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, customerID id.CustomerID) (*Customer, error)
	List(ctx context.Context, opts ListOpts) ([]*Customer, error)
}

// ListOpts filters customer listings.
type ListOpts struct {
	Limit  int
	Offset int
}
