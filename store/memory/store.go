// Package memory provides an in-memory Store implementation, primarily for
// tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/billing"
	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/types"
)

type Store struct {
	mu sync.RWMutex

	// Customer storage
	customers map[string]*customer.Customer

	// Invoice storage
	invoices map[string]*invoice.Invoice
	// invoiceOrder preserves insertion order for listing.
	invoiceOrder []string

	// Payment storage
	payments []*payment.Payment
}

func New() *Store {
	return &Store{
		customers: make(map[string]*customer.Customer),
		invoices:  make(map[string]*invoice.Invoice),
		payments:  make([]*payment.Payment, 0),
	}
}

// Customer Store implementation

func (s *Store) CreateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID.String()]; exists {
		return billing.ErrAlreadyExists
	}
	s.customers[c.ID.String()] = c
	return nil
}

func (s *Store) GetCustomer(_ context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customers[customerID.String()]; ok {
		return c, nil
	}
	return nil, billing.ErrCustomerNotFound
}

func (s *Store) ListCustomers(_ context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*customer.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})
	return paginate(result, opts.Limit, opts.Offset), nil
}

// Invoice Store implementation

func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; exists {
		return billing.ErrAlreadyExists
	}
	s.invoices[inv.ID.String()] = inv
	s.invoiceOrder = append(s.invoiceOrder, inv.ID.String())
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invID.String()]; ok {
		return inv, nil
	}
	return nil, billing.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0, len(s.invoiceOrder))
	for _, key := range s.invoiceOrder {
		inv := s.invoices[key]
		if !opts.CustomerID.IsNil() && inv.CustomerID.String() != opts.CustomerID.String() {
			continue
		}
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		result = append(result, inv)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; !exists {
		return billing.ErrInvoiceNotFound
	}
	s.invoices[inv.ID.String()] = inv
	return nil
}

func (s *Store) ListPendingInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	return s.ListInvoices(ctx, invoice.ListOpts{Status: invoice.StatusPending})
}

// Payment Store implementation

func (s *Store) CreatePayment(_ context.Context, customerID id.CustomerID, invoiceID id.InvoiceID, status payment.Status, billedOn types.Date) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &payment.Payment{
		Entity:     types.NewEntity(),
		ID:         id.NewPaymentID(),
		CustomerID: customerID,
		InvoiceID:  invoiceID,
		LastBilled: &billedOn,
		Status:     status,
	}
	s.payments = append(s.payments, p)
	return p, nil
}

func (s *Store) LastPaymentForCustomer(_ context.Context, customerID id.CustomerID) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *payment.Payment
	for _, p := range s.payments {
		if p.CustomerID.String() != customerID.String() {
			continue
		}
		// Ties on CreatedAt resolve to the later insertion.
		if last == nil || !p.CreatedAt.Before(last.CreatedAt) {
			last = p
		}
	}
	if last == nil {
		return nil, billing.ErrPaymentNotFound
	}
	return last, nil
}

func (s *Store) ListPayments(_ context.Context, customerID id.CustomerID, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range s.payments {
		if !customerID.IsNil() && p.CustomerID.String() != customerID.String() {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		result = append(result, p)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

// Core Store implementation

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
