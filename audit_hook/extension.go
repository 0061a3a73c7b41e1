// Package audithook bridges billing lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on any
// concrete audit system. Callers inject a RecorderFunc adapter that bridges
// to their audit backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/billing/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin            = (*Extension)(nil)
	_ plugin.OnRunStarted      = (*Extension)(nil)
	_ plugin.OnRunCompleted    = (*Extension)(nil)
	_ plugin.OnInvoiceCharged  = (*Extension)(nil)
	_ plugin.OnChargeDeclined  = (*Extension)(nil)
	_ plugin.OnGatewayFault    = (*Extension)(nil)
	_ plugin.OnPaymentRecorded = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that the audit_hook package does not import a
// concrete audit module — callers inject the backend at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges billing lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Run lifecycle hooks
// ──────────────────────────────────────────────────

// OnRunStarted implements plugin.OnRunStarted.
func (e *Extension) OnRunStarted(ctx context.Context, runID string, invoiceCount int) error {
	return e.record(ctx, ActionRunStarted, SeverityInfo, OutcomeSuccess,
		ResourceRun, runID, CategoryBilling, nil,
		"run_id", runID,
		"invoice_count", invoiceCount,
	)
}

// OnRunCompleted implements plugin.OnRunCompleted.
func (e *Extension) OnRunCompleted(ctx context.Context, runID string, payments, faults int, elapsed time.Duration) error {
	outcome := OutcomeSuccess
	if faults > 0 {
		outcome = OutcomePartial
	}
	return e.record(ctx, ActionRunCompleted, SeverityInfo, outcome,
		ResourceRun, runID, CategoryBilling, nil,
		"run_id", runID,
		"payments", payments,
		"faults", faults,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Charge lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCharged implements plugin.OnInvoiceCharged.
func (e *Extension) OnInvoiceCharged(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceCharged, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_charged",
	)
}

// OnChargeDeclined implements plugin.OnChargeDeclined.
func (e *Extension) OnChargeDeclined(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionChargeDeclined, SeverityWarning, OutcomeFailure,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "charge_declined",
	)
}

// OnGatewayFault implements plugin.OnGatewayFault.
func (e *Extension) OnGatewayFault(ctx context.Context, _ interface{}, err error) error {
	return e.record(ctx, ActionGatewayFault, SeverityError, OutcomeFailure,
		ResourceGateway, "", CategoryPayment, err,
		"event", "gateway_fault",
	)
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (e *Extension) OnPaymentRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPaymentRecorded, SeverityInfo, OutcomeSuccess,
		ResourcePayment, "", CategoryPayment, nil,
		"event", "payment_recorded",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
