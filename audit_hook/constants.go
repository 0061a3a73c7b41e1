package audithook

// Action constants for audit events.
const (
	// Run actions
	ActionRunStarted   = "run.started"
	ActionRunCompleted = "run.completed"

	// Charge actions
	ActionInvoiceCharged = "invoice.charged"
	ActionChargeDeclined = "charge.declined"
	ActionGatewayFault   = "gateway.fault"

	// Ledger actions
	ActionPaymentRecorded = "payment.recorded"
)

// Resource constants for audit events.
const (
	ResourceRun     = "run"
	ResourceInvoice = "invoice"
	ResourcePayment = "payment"
	ResourceGateway = "gateway"
)

// Category constants for audit events.
const (
	CategoryBilling = "billing"
	CategoryPayment = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
