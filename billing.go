package billing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/billing/gateway"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/plugin"
	"github.com/xraph/billing/store"
	"github.com/xraph/billing/types"
)

// Engine is the billing engine. It decides which invoices are eligible to be
// charged this cycle, invokes the payment gateway once per eligible invoice,
// and records every attempt in the ledger store.
type Engine struct {
	store   store.Store
	gateway gateway.Gateway
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   Clock

	// Background worker
	runInterval time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup

	// Serializes runs started by this engine's own worker. Independent
	// callers of BillAll are deliberately not synchronized; see BillAll.
	runMu sync.Mutex
}

// New creates a new billing Engine over the given ledger store and payment
// gateway.
func New(s store.Store, g gateway.Gateway, opts ...Option) *Engine {
	e := &Engine{
		store:    s,
		gateway:  g,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		clock:    SystemClock(),
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithClock sets the clock used by the eligibility check.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithRunInterval enables the periodic run worker: every interval the engine
// bills all pending invoices in the store. Zero (the default) disables it.
func WithRunInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.runInterval = d
	}
}

// Start migrates the store, initializes plugins, and launches the periodic
// run worker when one is configured.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	if e.runInterval > 0 {
		e.wg.Add(1)
		go e.runWorker(ctx)
	}

	e.logger.Info("billing engine started",
		"run_interval", e.runInterval,
	)

	return nil
}

// Stop shuts down the Engine and closes the store.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Billing runs
// ──────────────────────────────────────────────────

// Fault is a per-invoice gateway failure. The invoice was left untouched and
// no payment record was written; the caller may retry it in a later run.
type Fault struct {
	Invoice *invoice.Invoice
	Err     error
}

// Result is the outcome of one billing run.
type Result struct {
	// Payments are the ledger records actually created, in the same relative
	// order as the eligible invoices that produced them.
	Payments []*payment.Payment
	// Faults are the invoices the gateway could not decide on.
	Faults []Fault
}

// BillAll attempts to bill the given invoices, in three sequential stages:
// eligibility filtering, charging, and reconciliation. Each stage fully
// consumes the previous stage's output.
//
// An invoice is skipped when it is already paid, or when the owning
// customer's most recent ledger payment falls inside the monthly eligibility
// window (see DueForBilling). Skipped invoices contribute nothing to the
// result. Declined charges are a normal outcome and yield a failed payment
// record; gateway faults leave the invoice untouched and are reported in
// Result.Faults instead.
//
// BillAll itself does not guard against concurrent invocations: two
// overlapping runs can both see a customer as eligible and double-bill
// within the window. Callers must schedule runs so they do not overlap; the
// built-in run worker (WithRunInterval) does so for the runs it starts.
func (e *Engine) BillAll(ctx context.Context, invoices []*invoice.Invoice) (*Result, error) {
	runID := id.NewRunID()
	start := time.Now()
	today := e.clock.Today()

	e.plugins.EmitRunStarted(ctx, runID.String(), len(invoices))

	// Stage 1: eligibility filter.
	eligible := make([]*invoice.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status == invoice.StatusPaid {
			continue
		}

		due, err := e.customerDue(ctx, inv, today)
		if err != nil {
			return nil, err
		}
		if due {
			eligible = append(eligible, inv)
		}
	}

	// Stage 2: charge each eligible invoice, order-preserving. Faults leave
	// the invoice untouched and drop it from reconciliation.
	charged := make([]*invoice.Invoice, 0, len(eligible))
	result := &Result{}
	for _, inv := range eligible {
		outcome, err := e.gateway.Charge(ctx, inv)
		if err != nil {
			e.logger.Warn("gateway fault, leaving invoice untouched",
				"run_id", runID.String(),
				"invoice_id", inv.ID.String(),
				"customer_id", inv.CustomerID.String(),
				"error", err,
			)
			e.plugins.EmitGatewayFault(ctx, inv, err)
			result.Faults = append(result.Faults, Fault{Invoice: inv, Err: err})
			continue
		}

		switch outcome {
		case gateway.OutcomeSucceeded:
			charged = append(charged, inv.WithStatus(invoice.StatusPaid))
			e.plugins.EmitInvoiceCharged(ctx, inv)
		case gateway.OutcomeDeclined:
			charged = append(charged, inv.WithStatus(invoice.StatusPending))
			e.plugins.EmitChargeDeclined(ctx, inv)
		default:
			return nil, fmt.Errorf("billing: gateway returned unknown outcome %q for invoice %s", outcome, inv.ID)
		}
	}

	// Stage 3: reconciliation. Persist each invoice's new status, then
	// append a payment record mapping paid→succeeded, pending→failed.
	for _, inv := range charged {
		if err := e.store.UpdateInvoice(ctx, inv); err != nil {
			return result, fmt.Errorf("billing: update invoice %s: %w", inv.ID, err)
		}

		var status payment.Status
		switch inv.Status {
		case invoice.StatusPaid:
			status = payment.StatusSucceeded
		case invoice.StatusPending:
			status = payment.StatusFailed
		default:
			return result, fmt.Errorf("%w: %q on invoice %s", ErrInvalidInvoiceStatus, inv.Status, inv.ID)
		}

		p, err := e.store.CreatePayment(ctx, inv.CustomerID, inv.ID, status, today)
		if err != nil {
			// The ledger refused the record after the invoice update went
			// through. Absorbed: the invoice contributes no payment to the
			// result, matching the silent-decline pass-through below.
			e.logger.Warn("ledger declined payment record",
				"run_id", runID.String(),
				"invoice_id", inv.ID.String(),
				"customer_id", inv.CustomerID.String(),
				"error", err,
			)
			continue
		}
		if p == nil {
			// Silent ledger decline: documented pass-through.
			continue
		}

		result.Payments = append(result.Payments, p)
		e.plugins.EmitPaymentRecorded(ctx, p)
	}

	elapsed := time.Since(start)
	e.plugins.EmitRunCompleted(ctx, runID.String(), len(result.Payments), len(result.Faults), elapsed)

	e.logger.Info("billing run completed",
		"run_id", runID.String(),
		"invoices", len(invoices),
		"eligible", len(eligible),
		"payments", len(result.Payments),
		"faults", len(result.Faults),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return result, nil
}

// RunPending bills every pending invoice currently in the store. This is
// what the periodic run worker executes each tick.
func (e *Engine) RunPending(ctx context.Context) (*Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	pending, err := e.store.ListPendingInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing: list pending invoices: %w", err)
	}

	return e.BillAll(ctx, pending)
}

// customerDue reports whether the invoice's customer is outside the
// eligibility window. A customer with no ledger payment at all is due.
func (e *Engine) customerDue(ctx context.Context, inv *invoice.Invoice, today types.Date) (bool, error) {
	last, err := e.store.LastPaymentForCustomer(ctx, inv.CustomerID)
	if err != nil {
		if IsNotFound(err) {
			return true, nil
		}
		return false, fmt.Errorf("billing: fetch last payment for customer %s: %w", inv.CustomerID, err)
	}

	return DueForBilling(last.LastBilled, today), nil
}

// runWorker periodically bills all pending invoices until Stop is called.
func (e *Engine) runWorker(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.runInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			if _, err := e.RunPending(ctx); err != nil {
				e.logger.Error("periodic billing run failed",
					"error", err,
				)
			}
		}
	}
}
