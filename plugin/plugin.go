// Package plugin provides an extensible plugin system for the billing engine.
// Plugins can hook into run and charge lifecycle events to extend
// functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Billing run hooks
// ──────────────────────────────────────────────────

// OnRunStarted is called when a billing run begins.
type OnRunStarted interface {
	Plugin
	OnRunStarted(ctx context.Context, runID string, invoiceCount int) error
}

// OnRunCompleted is called when a billing run finishes.
type OnRunCompleted interface {
	Plugin
	OnRunCompleted(ctx context.Context, runID string, payments, faults int, elapsed time.Duration) error
}

// ──────────────────────────────────────────────────
// Charge hooks
// ──────────────────────────────────────────────────

// OnInvoiceCharged is called when the gateway accepts a charge.
type OnInvoiceCharged interface {
	Plugin
	OnInvoiceCharged(ctx context.Context, inv interface{}) error
}

// OnChargeDeclined is called when the gateway declines a charge.
type OnChargeDeclined interface {
	Plugin
	OnChargeDeclined(ctx context.Context, inv interface{}) error
}

// OnGatewayFault is called when the gateway cannot decide on a charge.
type OnGatewayFault interface {
	Plugin
	OnGatewayFault(ctx context.Context, inv interface{}, err error) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnPaymentRecorded is called when a payment record is created in the ledger.
type OnPaymentRecorded interface {
	Plugin
	OnPaymentRecorded(ctx context.Context, p interface{}) error
}
