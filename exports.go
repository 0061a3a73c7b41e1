package billing

import "github.com/xraph/billing/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Date is re-exported from types package.
type Date = types.Date

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	DKK  = types.DKK
	SEK  = types.SEK
	NOK  = types.NOK
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity

// Re-export Date constructors
var (
	NewDate   = types.NewDate
	DateOf    = types.DateOf
	ParseDate = types.ParseDate
)
