package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	billing "github.com/xraph/billing"
	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/gateway"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/store"
	"github.com/xraph/billing/store/memory"
	"github.com/xraph/billing/types"
)

var testToday = types.NewDate(2024, time.March, 15)

func seedCustomer(t *testing.T, s store.Store, currency string) *customer.Customer {
	t.Helper()
	c := &customer.Customer{
		Entity:   types.NewEntity(),
		ID:       id.NewCustomerID(),
		Currency: currency,
	}
	if err := s.CreateCustomer(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	return c
}

func seedInvoice(t *testing.T, s store.Store, customerID id.CustomerID, amount types.Money, status invoice.Status) *invoice.Invoice {
	t.Helper()
	inv := &invoice.Invoice{
		Entity:     types.NewEntity(),
		ID:         id.NewInvoiceID(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
	}
	if err := s.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	return inv
}

func accept(_ context.Context, _ *invoice.Invoice) (gateway.Outcome, error) {
	return gateway.OutcomeSucceeded, nil
}

func decline(_ context.Context, _ *invoice.Invoice) (gateway.Outcome, error) {
	return gateway.OutcomeDeclined, nil
}

func newEngine(s store.Store, g gateway.Gateway, opts ...billing.Option) *billing.Engine {
	opts = append([]billing.Option{billing.WithClock(billing.FixedClock(testToday))}, opts...)
	return billing.New(s, g, opts...)
}

func TestBillAllEmpty(t *testing.T) {
	eng := newEngine(memory.New(), gateway.Func(accept))

	result, err := eng.BillAll(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 0 || len(result.Faults) != 0 {
		t.Errorf("empty run: got %d payments, %d faults", len(result.Payments), len(result.Faults))
	}
}

func TestBillAllSuccess(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "usd")
	inv := seedInvoice(t, s, c.ID, types.USD(4900), invoice.StatusPending)

	eng := newEngine(s, gateway.Func(accept))

	result, err := eng.BillAll(ctx, []*invoice.Invoice{inv})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(result.Payments))
	}

	p := result.Payments[0]
	if p.Status != payment.StatusSucceeded {
		t.Errorf("payment status: got %s", p.Status)
	}
	if p.CustomerID.String() != c.ID.String() || p.InvoiceID.String() != inv.ID.String() {
		t.Error("payment references wrong customer or invoice")
	}
	if p.LastBilled == nil || !p.LastBilled.Equal(testToday) {
		t.Errorf("last billed: got %v, want %v", p.LastBilled, testToday)
	}

	stored, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != invoice.StatusPaid {
		t.Errorf("stored invoice status: got %s, want paid", stored.Status)
	}
}

func TestBillAllDecline(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "dkk")
	inv := seedInvoice(t, s, c.ID, types.DKK(32900), invoice.StatusPending)

	eng := newEngine(s, gateway.Func(decline))

	result, err := eng.BillAll(ctx, []*invoice.Invoice{inv})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(result.Payments))
	}
	if result.Payments[0].Status != payment.StatusFailed {
		t.Errorf("payment status: got %s, want failed", result.Payments[0].Status)
	}

	// A decline is decided: the ledger records it, but the invoice stays
	// pending for the next cycle.
	stored, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != invoice.StatusPending {
		t.Errorf("stored invoice status: got %s, want pending", stored.Status)
	}
}

func TestBillAllGatewayFault(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "usd")
	inv := seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending)

	eng := newEngine(s, gateway.Func(func(_ context.Context, _ *invoice.Invoice) (gateway.Outcome, error) {
		return "", gateway.ErrUnavailable
	}))

	result, err := eng.BillAll(ctx, []*invoice.Invoice{inv})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 0 {
		t.Errorf("got %d payments, want 0", len(result.Payments))
	}
	if len(result.Faults) != 1 {
		t.Fatalf("got %d faults, want 1", len(result.Faults))
	}
	if !errors.Is(result.Faults[0].Err, gateway.ErrUnavailable) {
		t.Errorf("fault error: got %v", result.Faults[0].Err)
	}

	// The invoice is untouched and no ledger record exists: the customer
	// remains eligible for the next run.
	stored, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != invoice.StatusPending {
		t.Errorf("stored invoice status: got %s, want pending", stored.Status)
	}
	if _, err := s.LastPaymentForCustomer(ctx, c.ID); !billing.IsNotFound(err) {
		t.Errorf("expected no payment record, got %v", err)
	}
}

func TestBillAllSkipsPaidInvoices(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "usd")
	paid := seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPaid)

	charges := 0
	eng := newEngine(s, gateway.Func(func(ctx context.Context, inv *invoice.Invoice) (gateway.Outcome, error) {
		charges++
		return accept(ctx, inv)
	}))

	result, err := eng.BillAll(ctx, []*invoice.Invoice{paid})
	if err != nil {
		t.Fatal(err)
	}
	if charges != 0 {
		t.Errorf("gateway invoked %d times for a paid invoice", charges)
	}
	if len(result.Payments) != 0 {
		t.Errorf("got %d payments, want 0", len(result.Payments))
	}
}

func TestBillAllEligibilityWindow(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		lastBilled types.Date
		wantBilled bool
	}{
		// Cutoff for Mar 15 is Feb 16.
		{"billed before cutoff", types.NewDate(2024, time.February, 15), true},
		{"billed at cutoff", types.NewDate(2024, time.February, 16), false},
		{"billed recently", types.NewDate(2024, time.March, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.New()
			c := seedCustomer(t, s, "usd")
			prior := seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPaid)
			if _, err := s.CreatePayment(ctx, c.ID, prior.ID, payment.StatusSucceeded, tt.lastBilled); err != nil {
				t.Fatal(err)
			}

			inv := seedInvoice(t, s, c.ID, types.USD(200), invoice.StatusPending)
			eng := newEngine(s, gateway.Func(accept))

			result, err := eng.BillAll(ctx, []*invoice.Invoice{inv})
			if err != nil {
				t.Fatal(err)
			}

			billed := len(result.Payments) == 1
			if billed != tt.wantBilled {
				t.Errorf("billed: got %v, want %v", billed, tt.wantBilled)
			}
		})
	}
}

func TestBillAllOrderPreserving(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	var invs []*invoice.Invoice
	for range 3 {
		c := seedCustomer(t, s, "usd")
		invs = append(invs, seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending))
	}

	eng := newEngine(s, gateway.Func(accept))

	result, err := eng.BillAll(ctx, invs)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 3 {
		t.Fatalf("got %d payments, want 3", len(result.Payments))
	}
	for i, p := range result.Payments {
		if p.InvoiceID.String() != invs[i].ID.String() {
			t.Errorf("payment %d references invoice %s, want %s", i, p.InvoiceID, invs[i].ID)
		}
	}
}

func TestBillAllMixedOutcomes(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	var invs []*invoice.Invoice
	for range 3 {
		c := seedCustomer(t, s, "usd")
		invs = append(invs, seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending))
	}

	// First accepted, second declined, third faults.
	outcomes := map[string]func() (gateway.Outcome, error){
		invs[0].ID.String(): func() (gateway.Outcome, error) { return gateway.OutcomeSucceeded, nil },
		invs[1].ID.String(): func() (gateway.Outcome, error) { return gateway.OutcomeDeclined, nil },
		invs[2].ID.String(): func() (gateway.Outcome, error) { return "", gateway.ErrRateLimited },
	}
	eng := newEngine(s, gateway.Func(func(_ context.Context, inv *invoice.Invoice) (gateway.Outcome, error) {
		return outcomes[inv.ID.String()]()
	}))

	result, err := eng.BillAll(ctx, invs)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(result.Payments))
	}
	if result.Payments[0].Status != payment.StatusSucceeded || result.Payments[1].Status != payment.StatusFailed {
		t.Errorf("payment statuses: got %s, %s", result.Payments[0].Status, result.Payments[1].Status)
	}
	if len(result.Faults) != 1 || result.Faults[0].Invoice.ID.String() != invs[2].ID.String() {
		t.Error("fault should reference the third invoice")
	}
}

func TestBillAllUnknownOutcome(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "usd")
	inv := seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending)

	eng := newEngine(s, gateway.Func(func(_ context.Context, _ *invoice.Invoice) (gateway.Outcome, error) {
		return "maybe", nil
	}))

	if _, err := eng.BillAll(ctx, []*invoice.Invoice{inv}); err == nil {
		t.Error("expected error for unknown gateway outcome")
	}
}

// silentLedger simulates a backend that declines payment records without
// erroring.
type silentLedger struct {
	store.Store
}

func (silentLedger) CreatePayment(_ context.Context, _ id.CustomerID, _ id.InvoiceID, _ payment.Status, _ types.Date) (*payment.Payment, error) {
	return nil, nil
}

func TestBillAllSilentLedgerDecline(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	c := seedCustomer(t, mem, "usd")
	inv := seedInvoice(t, mem, c.ID, types.USD(100), invoice.StatusPending)

	eng := newEngine(silentLedger{mem}, gateway.Func(accept))

	result, err := eng.BillAll(ctx, []*invoice.Invoice{inv})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 0 {
		t.Errorf("got %d payments, want 0", len(result.Payments))
	}
	if len(result.Faults) != 0 {
		t.Errorf("got %d faults, want 0", len(result.Faults))
	}

	// The invoice update still went through.
	stored, err := mem.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != invoice.StatusPaid {
		t.Errorf("stored invoice status: got %s, want paid", stored.Status)
	}
}

func TestRunPending(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a := seedCustomer(t, s, "usd")
	b := seedCustomer(t, s, "usd")
	pending := seedInvoice(t, s, a.ID, types.USD(100), invoice.StatusPending)
	seedInvoice(t, s, b.ID, types.USD(200), invoice.StatusPaid)

	eng := newEngine(s, gateway.Func(accept))

	result, err := eng.RunPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(result.Payments))
	}
	if result.Payments[0].InvoiceID.String() != pending.ID.String() {
		t.Error("payment should reference the pending invoice")
	}
}

func TestEngineStartStop(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(memory.New(), gateway.Func(accept))

	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := eng.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestRunWorker(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := seedCustomer(t, s, "usd")
	inv := seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending)

	eng := newEngine(s, gateway.Func(accept), billing.WithRunInterval(10*time.Millisecond))
	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer eng.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		stored, err := s.GetInvoice(ctx, inv.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status == invoice.StatusPaid {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run worker never billed the pending invoice")
}

// recordingPlugin captures the lifecycle hooks fired during a run.
type recordingPlugin struct {
	started, completed     int
	charged, declined      int
	faults, recorded       int
	lastRunID              string
	lastPayments, lastErrs int
}

func (p *recordingPlugin) Name() string { return "recording" }

func (p *recordingPlugin) OnRunStarted(_ context.Context, runID string, _ int) error {
	p.started++
	p.lastRunID = runID
	return nil
}

func (p *recordingPlugin) OnRunCompleted(_ context.Context, _ string, payments, faults int, _ time.Duration) error {
	p.completed++
	p.lastPayments = payments
	p.lastErrs = faults
	return nil
}

func (p *recordingPlugin) OnInvoiceCharged(_ context.Context, _ interface{}) error {
	p.charged++
	return nil
}

func (p *recordingPlugin) OnChargeDeclined(_ context.Context, _ interface{}) error {
	p.declined++
	return nil
}

func (p *recordingPlugin) OnGatewayFault(_ context.Context, _ interface{}, _ error) error {
	p.faults++
	return nil
}

func (p *recordingPlugin) OnPaymentRecorded(_ context.Context, _ interface{}) error {
	p.recorded++
	return nil
}

func TestPluginHooks(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	var invs []*invoice.Invoice
	for range 2 {
		c := seedCustomer(t, s, "usd")
		invs = append(invs, seedInvoice(t, s, c.ID, types.USD(100), invoice.StatusPending))
	}

	outcomes := map[string]func() (gateway.Outcome, error){
		invs[0].ID.String(): func() (gateway.Outcome, error) { return gateway.OutcomeSucceeded, nil },
		invs[1].ID.String(): func() (gateway.Outcome, error) { return "", gateway.ErrUnavailable },
	}

	rec := &recordingPlugin{}
	eng := newEngine(s,
		gateway.Func(func(_ context.Context, inv *invoice.Invoice) (gateway.Outcome, error) {
			return outcomes[inv.ID.String()]()
		}),
		billing.WithPlugin(rec),
	)

	if _, err := eng.BillAll(ctx, invs); err != nil {
		t.Fatal(err)
	}

	if rec.started != 1 || rec.completed != 1 {
		t.Errorf("run hooks: started=%d completed=%d", rec.started, rec.completed)
	}
	if rec.lastRunID == "" {
		t.Error("run ID missing from hook")
	}
	if rec.charged != 1 || rec.faults != 1 || rec.recorded != 1 {
		t.Errorf("charge hooks: charged=%d faults=%d recorded=%d", rec.charged, rec.faults, rec.recorded)
	}
	if rec.lastPayments != 1 || rec.lastErrs != 1 {
		t.Errorf("completion counts: payments=%d faults=%d", rec.lastPayments, rec.lastErrs)
	}
}
