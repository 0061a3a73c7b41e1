package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"EUR", EUR(19900), 19900, "eur", "€199.00"},
		{"GBP", GBP(9900), 9900, "gbp", "£99.00"},
		{"DKK", DKK(32900), 32900, "dkk", "kr 329.00"},
		{"SEK", SEK(2500), 2500, "sek", "kr 25.00"},
		{"NOK", NOK(7550), 7550, "nok", "kr 75.50"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
		{"Zero DKK", Zero("DKK"), 0, "dkk", "kr 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return USD(100).Add(USD(200)) }, USD(300)},
		{"Subtract", func() Money { return USD(500).Subtract(USD(200)) }, USD(300)},
		{"Negate", func() Money { return USD(100).Negate() }, USD(-100)},
		{"Negate negative", func() Money { return USD(-100).Negate() }, USD(100)},
		{"Chained", func() Money {
			return USD(1000).Add(USD(500)).Subtract(USD(700))
		}, USD(800)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = USD(100).Add(EUR(100))
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		less    bool
		greater bool
		equal   bool
	}{
		{"Equal", USD(100), USD(100), false, false, true},
		{"Less", USD(50), USD(100), true, false, false},
		{"Greater", USD(200), USD(100), false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestMoneyPredicates(t *testing.T) {
	if !Zero("usd").IsZero() {
		t.Error("Zero should be zero")
	}
	if !USD(1).IsPositive() {
		t.Error("USD(1) should be positive")
	}
	if !USD(-1).IsNegative() {
		t.Error("USD(-1) should be negative")
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money Money
		want  string
	}{
		{USD(4900), "49.00"},
		{USD(4905), "49.05"},
		{USD(5), "0.05"},
		{USD(-4950), "-49.50"},
		{USD(0), "0.00"},
	}

	for _, tt := range tests {
		if got := tt.money.FormatMajor(); got != tt.want {
			t.Errorf("FormatMajor(%d): got %s, want %s", tt.money.Amount, got, tt.want)
		}
	}
}

func TestMoneySum(t *testing.T) {
	total := Sum(USD(100), USD(200), USD(300))
	if !total.Equal(USD(600)) {
		t.Errorf("Sum: got %v, want %v", total, USD(600))
	}

	empty := Sum()
	if !empty.IsZero() {
		t.Errorf("Sum of nothing should be zero, got %v", empty)
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	data, err := json.Marshal(USD(4900))
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Amount != 4900 || decoded.Currency != "usd" || decoded.Display != "$49.00" {
		t.Errorf("unexpected JSON: %s", data)
	}
}
