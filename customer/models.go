// Package customer defines the customer entity owning invoices and payments.
package customer

import (
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/types"
)

// Customer owns invoices and is the unit the monthly billing cadence applies
// to. Currency is the customer's settlement currency; invoices are expected to
// be issued in it.
type Customer struct {
	types.Entity
	ID       id.CustomerID `json:"id"`
	Currency string        `json:"currency"`
}
