package billing_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	billing "github.com/xraph/billing"
	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/gateway"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/store/memory"
	"github.com/xraph/billing/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// A gateway for demo purposes; wire a real provider in production.
		gw := gateway.NewRandom(42, 0.9, 0.05)

		// Initialize the engine
		eng := billing.New(store, gw,
			billing.WithLogger(slog.Default()),
			billing.WithRunInterval(24*time.Hour),
		)

		// Start the engine
		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer eng.Stop()

		// Create a customer
		c := &customer.Customer{
			Entity:   types.NewEntity(),
			ID:       id.NewCustomerID(),
			Currency: "usd",
		}
		if err := store.CreateCustomer(ctx, c); err != nil {
			t.Fatal(err)
		}

		// Create a pending invoice for $49.00
		inv := &invoice.Invoice{
			Entity:     types.NewEntity(),
			ID:         id.NewInvoiceID(),
			CustomerID: c.ID,
			Amount:     types.USD(4900),
			Status:     invoice.StatusPending,
		}
		if err := store.CreateInvoice(ctx, inv); err != nil {
			t.Fatal(err)
		}

		// Bill everything that is pending right now
		result, err := eng.RunPending(ctx)
		if err != nil {
			t.Fatal(err)
		}
		total := len(result.Payments) + len(result.Faults)
		if total != 1 {
			t.Fatalf("expected one attempt, got %d payments and %d faults",
				len(result.Payments), len(result.Faults))
		}
	})

	// Test the custom gateway example
	t.Run("CustomGatewayExample", func(t *testing.T) {
		gw := gateway.Func(func(ctx context.Context, inv *invoice.Invoice) (gateway.Outcome, error) {
			// Call out to the real payment provider here.
			return gateway.OutcomeSucceeded, nil
		})

		outcome, err := gw.Charge(context.Background(), &invoice.Invoice{})
		if err != nil {
			t.Fatal(err)
		}
		if outcome != gateway.OutcomeSucceeded {
			t.Fatalf("got %q", outcome)
		}
	})

	// Test money helpers shown in the documentation
	t.Run("MoneyExample", func(t *testing.T) {
		price := types.USD(4900)
		if price.String() != "$49.00" {
			t.Fatalf("got %q", price.String())
		}

		total := types.Sum(types.USD(4900), types.USD(100))
		if total.Amount != 5000 {
			t.Fatalf("got %d", total.Amount)
		}
	})
}
