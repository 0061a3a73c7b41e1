// Package billing provides a scheduled invoice charging engine for Go
// applications.
//
// The engine is designed as a library, not a service. Import it directly into
// your Go application and drive it from your own scheduler, or let its
// background worker sweep pending invoices on an interval. It provides:
//
//   - Monthly billing eligibility derived from each customer's payment history
//   - Single-attempt charging through a pluggable payment gateway
//   - A payment ledger that records the outcome of every decided charge
//   - Pluggable lifecycle hooks for metrics and audit trails
//   - Interchangeable storage backends (memory, PostgreSQL, SQLite, MongoDB)
//
// # Quick Start
//
// Create an engine with your preferred store and gateway:
//
//	import (
//	    "github.com/xraph/billing"
//	    "github.com/xraph/billing/store/postgres"
//	)
//
//	st := postgres.New(db)
//	eng := billing.New(st, myGateway)
//
//	// Start the engine (runs migrations, begins the background worker)
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// Invoices carry a fixed amount owed by a customer and are either pending or
// paid. A billing run collects pending invoices, filters out customers billed
// within the last month, and charges the rest exactly once:
//
//	result, err := eng.RunPending(ctx)
//	for _, p := range result.Payments {
//	    fmt.Println(p.InvoiceID, p.Status)
//	}
//
// The gateway decides each charge with one of three outcomes: accepted,
// declined, or undecided (a provider fault). Accepted charges mark the
// invoice paid; declines leave it pending; faults leave the invoice untouched
// and are reported in Result.Faults for the next run to retry.
//
// All monetary amounts use integer arithmetic in the smallest currency unit
// (cents for USD, øre for DKK, etc) to avoid floating-point precision issues.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	cust_01h2xcejqtf2nbrexx3vqjhp41  // Customer ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//	pay_01h455vb4pex5vsknk084sn02q   // Payment ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package billing
