package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/billing/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"CustomerID", id.NewCustomerID, "cust_"},
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
		{"RunID", id.NewRunID, "run_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixCustomer)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixCustomer {
		t.Errorf("expected prefix %q, got %q", id.PrefixCustomer, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"CustomerID", id.NewCustomerID, id.ParseCustomerID},
		{"InvoiceID", id.NewInvoiceID, id.ParseInvoiceID},
		{"PaymentID", id.NewPaymentID, id.ParsePaymentID},
		{"RunID", id.NewRunID, id.ParseRunID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round trip: got %q, want %q", parsed.String(), original.String())
			}
		})
	}
}

func TestParseWrongPrefix(t *testing.T) {
	invID := id.NewInvoiceID()
	if _, err := id.ParseCustomerID(invID.String()); err == nil {
		t.Error("expected error parsing invoice ID as customer ID")
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "not a typeid", "inv_"} {
		if _, err := id.Parse(s); err == nil {
			t.Errorf("expected error parsing %q", s)
		}
	}
}

func TestNilID(t *testing.T) {
	var zero id.ID
	if !zero.IsNil() {
		t.Error("zero value should be nil")
	}
	if zero.String() != "" {
		t.Errorf("nil ID String: got %q", zero.String())
	}
	if zero.Prefix() != "" {
		t.Errorf("nil ID Prefix: got %q", zero.Prefix())
	}
}

func TestTextMarshal(t *testing.T) {
	original := id.NewPaymentID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatal(err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), original.String())
	}

	var nilID id.ID
	if err := nilID.UnmarshalText(nil); err != nil {
		t.Fatal(err)
	}
	if !nilID.IsNil() {
		t.Error("empty text should unmarshal to nil ID")
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := id.NewInvoiceID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}
