// Package observability provides a metrics extension for the billing engine
// that records run and charge lifecycle counts via a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/billing/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin            = (*MetricsExtension)(nil)
	_ plugin.OnInit            = (*MetricsExtension)(nil)
	_ plugin.OnRunStarted      = (*MetricsExtension)(nil)
	_ plugin.OnRunCompleted    = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCharged  = (*MetricsExtension)(nil)
	_ plugin.OnChargeDeclined  = (*MetricsExtension)(nil)
	_ plugin.OnGatewayFault    = (*MetricsExtension)(nil)
	_ plugin.OnPaymentRecorded = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records run and charge lifecycle metrics.
// Register it as a billing plugin to automatically track engine activity.
type MetricsExtension struct {
	factory MetricFactory

	// Run metrics
	RunsStarted   Counter
	RunsCompleted Counter
	RunBatchSize  Histogram
	RunDuration   Histogram

	// Charge metrics
	ChargesAccepted Counter
	ChargesDeclined Counter
	GatewayFaults   Counter

	// Ledger metrics
	PaymentsRecorded Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Run metrics
		RunsStarted:   factory.Counter("billing.run.started"),
		RunsCompleted: factory.Counter("billing.run.completed"),
		RunBatchSize:  factory.Histogram("billing.run.batch.size"),
		RunDuration:   factory.Histogram("billing.run.duration_ms"),

		// Charge metrics
		ChargesAccepted: factory.Counter("billing.charge.accepted"),
		ChargesDeclined: factory.Counter("billing.charge.declined"),
		GatewayFaults:   factory.Counter("billing.gateway.faults"),

		// Ledger metrics
		PaymentsRecorded: factory.Counter("billing.payment.recorded"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnRunStarted implements plugin.OnRunStarted.
func (m *MetricsExtension) OnRunStarted(_ context.Context, _ string, invoiceCount int) error {
	m.RunsStarted.Inc()
	m.RunBatchSize.Observe(float64(invoiceCount))
	return nil
}

// OnRunCompleted implements plugin.OnRunCompleted.
func (m *MetricsExtension) OnRunCompleted(_ context.Context, _ string, _, _ int, elapsed time.Duration) error {
	m.RunsCompleted.Inc()
	m.RunDuration.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// OnInvoiceCharged implements plugin.OnInvoiceCharged.
func (m *MetricsExtension) OnInvoiceCharged(_ context.Context, _ interface{}) error {
	m.ChargesAccepted.Inc()
	return nil
}

// OnChargeDeclined implements plugin.OnChargeDeclined.
func (m *MetricsExtension) OnChargeDeclined(_ context.Context, _ interface{}) error {
	m.ChargesDeclined.Inc()
	return nil
}

// OnGatewayFault implements plugin.OnGatewayFault.
func (m *MetricsExtension) OnGatewayFault(_ context.Context, _ interface{}, _ error) error {
	m.GatewayFaults.Inc()
	return nil
}

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (m *MetricsExtension) OnPaymentRecorded(_ context.Context, _ interface{}) error {
	m.PaymentsRecorded.Inc()
	return nil
}
