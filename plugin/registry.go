package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit            []OnInit
	onShutdown        []OnShutdown
	onRunStarted      []OnRunStarted
	onRunCompleted    []OnRunCompleted
	onInvoiceCharged  []OnInvoiceCharged
	onChargeDeclined  []OnChargeDeclined
	onGatewayFault    []OnGatewayFault
	onPaymentRecorded []OnPaymentRecorded
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnRunStarted); ok {
		r.onRunStarted = append(r.onRunStarted, v)
	}
	if v, ok := p.(OnRunCompleted); ok {
		r.onRunCompleted = append(r.onRunCompleted, v)
	}
	if v, ok := p.(OnInvoiceCharged); ok {
		r.onInvoiceCharged = append(r.onInvoiceCharged, v)
	}
	if v, ok := p.(OnChargeDeclined); ok {
		r.onChargeDeclined = append(r.onChargeDeclined, v)
	}
	if v, ok := p.(OnGatewayFault); ok {
		r.onGatewayFault = append(r.onGatewayFault, v)
	}
	if v, ok := p.(OnPaymentRecorded); ok {
		r.onPaymentRecorded = append(r.onPaymentRecorded, v)
	}

	return nil
}

// Get returns a registered plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRunStarted emits a run started event.
func (r *Registry) EmitRunStarted(ctx context.Context, runID string, invoiceCount int) {
	r.mu.RLock()
	plugins := r.onRunStarted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRunStarted(ctx, runID, invoiceCount)
		}); err != nil {
			r.logger.Warn("plugin OnRunStarted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRunCompleted emits a run completed event.
func (r *Registry) EmitRunCompleted(ctx context.Context, runID string, payments, faults int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onRunCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRunCompleted(ctx, runID, payments, faults, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnRunCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceCharged emits an invoice charged event.
func (r *Registry) EmitInvoiceCharged(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceCharged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceCharged(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceCharged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitChargeDeclined emits a charge declined event.
func (r *Registry) EmitChargeDeclined(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onChargeDeclined
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnChargeDeclined(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnChargeDeclined failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitGatewayFault emits a gateway fault event.
func (r *Registry) EmitGatewayFault(ctx context.Context, inv interface{}, faultErr error) {
	r.mu.RLock()
	plugins := r.onGatewayFault
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnGatewayFault(ctx, inv, faultErr)
		}); err != nil {
			r.logger.Warn("plugin OnGatewayFault failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentRecorded emits a payment recorded event.
func (r *Registry) EmitPaymentRecorded(ctx context.Context, payment interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentRecorded(ctx, payment)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
