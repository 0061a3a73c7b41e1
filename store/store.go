// Package store defines the unified ledger storage interface consumed by the
// billing engine, implemented by the memory, postgres, sqlite and mongo
// backends.
package store

import (
	"context"

	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/types"
)

// Store is the unified storage interface for all billing entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Customer methods
	CreateCustomer(ctx context.Context, c *customer.Customer) error
	GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error)
	ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error)

	// Invoice methods
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error
	ListPendingInvoices(ctx context.Context) ([]*invoice.Invoice, error)

	// Payment methods
	CreatePayment(ctx context.Context, customerID id.CustomerID, invoiceID id.InvoiceID, status payment.Status, billedOn types.Date) (*payment.Payment, error)
	LastPaymentForCustomer(ctx context.Context, customerID id.CustomerID) (*payment.Payment, error)
	ListPayments(ctx context.Context, customerID id.CustomerID, opts payment.ListOpts) ([]*payment.Payment, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
