package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/billing/invoice"
)

func TestRandomDistribution(t *testing.T) {
	g := NewRandom(1, 0.7, 0.1)
	ctx := context.Background()

	var succeeded, declined, faulted int
	for range 1000 {
		outcome, err := g.Charge(ctx, &invoice.Invoice{})
		switch {
		case err != nil:
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("unexpected error: %v", err)
			}
			faulted++
		case outcome == OutcomeSucceeded:
			succeeded++
		case outcome == OutcomeDeclined:
			declined++
		default:
			t.Fatalf("unexpected outcome %q", outcome)
		}
	}

	// With a fixed seed the distribution is stable; allow generous slack.
	if succeeded < 600 || succeeded > 800 {
		t.Errorf("succeeded = %d, want ~700", succeeded)
	}
	if faulted < 50 || faulted > 150 {
		t.Errorf("faulted = %d, want ~100", faulted)
	}
	if declined < 130 || declined > 270 {
		t.Errorf("declined = %d, want ~200", declined)
	}
}

func TestRandomAlwaysSucceeds(t *testing.T) {
	g := NewRandom(7, 1, 0)
	for range 100 {
		outcome, err := g.Charge(context.Background(), &invoice.Invoice{})
		if err != nil || outcome != OutcomeSucceeded {
			t.Fatalf("got (%q, %v)", outcome, err)
		}
	}
}
