package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/billing"
	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/types"
)

func newCustomer(currency string) *customer.Customer {
	return &customer.Customer{
		Entity:   types.NewEntity(),
		ID:       id.NewCustomerID(),
		Currency: currency,
	}
}

func newInvoice(customerID id.CustomerID, amount types.Money) *invoice.Invoice {
	return &invoice.Invoice{
		Entity:     types.NewEntity(),
		ID:         id.NewInvoiceID(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     invoice.StatusPending,
	}
}

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := newCustomer("usd")
	if err := s.CreateCustomer(ctx, c); err != nil {
		t.Fatal(err)
	}

	// Duplicate creates are rejected.
	if err := s.CreateCustomer(ctx, c); !errors.Is(err, billing.ErrAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != "usd" {
		t.Errorf("currency: got %s", got.Currency)
	}

	if _, err := s.GetCustomer(ctx, id.NewCustomerID()); !errors.Is(err, billing.ErrCustomerNotFound) {
		t.Errorf("missing customer: got %v, want ErrCustomerNotFound", err)
	}

	list, err := s.ListCustomers(ctx, customer.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("list: got %d customers, want 1", len(list))
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := newCustomer("eur")
	inv := newInvoice(c.ID, types.EUR(1500))
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateInvoice(ctx, inv); !errors.Is(err, billing.ErrAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != invoice.StatusPending {
		t.Errorf("status: got %s", got.Status)
	}

	// Update flips the stored status.
	if err := s.UpdateInvoice(ctx, inv.WithStatus(invoice.StatusPaid)); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != invoice.StatusPaid {
		t.Errorf("status after update: got %s", got.Status)
	}

	// Updating an unknown invoice reports not found.
	missing := newInvoice(c.ID, types.EUR(100))
	if err := s.UpdateInvoice(ctx, missing); !errors.Is(err, billing.ErrInvoiceNotFound) {
		t.Errorf("update missing: got %v, want ErrInvoiceNotFound", err)
	}
}

func TestListInvoicesFilters(t *testing.T) {
	ctx := context.Background()
	s := New()

	alice := newCustomer("usd")
	bob := newCustomer("usd")

	invs := []*invoice.Invoice{
		newInvoice(alice.ID, types.USD(100)),
		newInvoice(bob.ID, types.USD(200)),
		newInvoice(alice.ID, types.USD(300)),
	}
	for _, inv := range invs {
		if err := s.CreateInvoice(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpdateInvoice(ctx, invs[2].WithStatus(invoice.StatusPaid)); err != nil {
		t.Fatal(err)
	}

	byCustomer, err := s.ListInvoices(ctx, invoice.ListOpts{CustomerID: alice.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCustomer) != 2 {
		t.Errorf("by customer: got %d, want 2", len(byCustomer))
	}

	pending, err := s.ListPendingInvoices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("pending: got %d, want 2", len(pending))
	}

	// Insertion order is preserved.
	if pending[0].ID.String() != invs[0].ID.String() || pending[1].ID.String() != invs[1].ID.String() {
		t.Error("pending invoices out of insertion order")
	}

	limited, err := s.ListInvoices(ctx, invoice.ListOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID.String() != invs[1].ID.String() {
		t.Error("limit/offset pagination mismatch")
	}
}

func TestPaymentLedger(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := newCustomer("usd")
	inv := newInvoice(c.ID, types.USD(100))

	if _, err := s.LastPaymentForCustomer(ctx, c.ID); !errors.Is(err, billing.ErrPaymentNotFound) {
		t.Errorf("no payments: got %v, want ErrPaymentNotFound", err)
	}

	first := types.NewDate(2024, time.January, 10)
	p1, err := s.CreatePayment(ctx, c.ID, inv.ID, payment.StatusFailed, first)
	if err != nil {
		t.Fatal(err)
	}
	if p1.LastBilled == nil || !p1.LastBilled.Equal(first) {
		t.Errorf("last billed: got %v, want %v", p1.LastBilled, first)
	}

	second := types.NewDate(2024, time.February, 11)
	p2, err := s.CreatePayment(ctx, c.ID, inv.ID, payment.StatusSucceeded, second)
	if err != nil {
		t.Fatal(err)
	}

	last, err := s.LastPaymentForCustomer(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if last.ID.String() != p2.ID.String() {
		t.Errorf("last payment: got %s, want %s", last.ID, p2.ID)
	}
	if last.Status != payment.StatusSucceeded {
		t.Errorf("last payment status: got %s", last.Status)
	}

	all, err := s.ListPayments(ctx, c.ID, payment.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("list payments: got %d, want 2", len(all))
	}

	failed, err := s.ListPayments(ctx, c.ID, payment.ListOpts{Status: payment.StatusFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 {
		t.Errorf("failed payments: got %d, want 1", len(failed))
	}
}

func TestCoreMethods(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
