package billing

import (
	"time"

	"github.com/xraph/billing/types"
)

// Clock supplies the current date to the eligibility check. Injecting it
// keeps the cadence decision deterministic under test; production code uses
// the system clock in UTC.
type Clock interface {
	Today() types.Date
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() types.Date

// Today implements Clock.
func (f ClockFunc) Today() types.Date { return f() }

// SystemClock returns a Clock backed by the system time in UTC.
func SystemClock() Clock {
	return ClockFunc(func() types.Date {
		return types.DateOf(time.Now())
	})
}

// FixedClock returns a Clock pinned to a single date.
func FixedClock(d types.Date) Clock {
	return ClockFunc(func() types.Date { return d })
}

// DueForBilling decides whether a customer whose last billing happened on
// lastBilled may be billed again today. A nil lastBilled means the customer
// was never billed and is always due.
//
// The cadence is monthly with a one-day adjustment: the customer is due once
// lastBilled is strictly before today minus one calendar month plus one day.
// Month subtraction clamps to the end of shorter months (see types.Date.AddMonths),
// so a customer billed on Jan 31 becomes due again on Mar 1 in a
// non-leap year.
func DueForBilling(lastBilled *types.Date, today types.Date) bool {
	if lastBilled == nil {
		return true
	}
	cutoff := today.AddMonths(-1).AddDays(1)
	return lastBilled.Before(cutoff)
}
