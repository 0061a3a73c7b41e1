package gateway

import (
	"context"
	"math/rand"
	"sync"

	"github.com/xraph/billing/invoice"
)

// Random is a pseudo payment provider for development and examples. Each
// charge succeeds with probability SuccessRate, faults with probability
// FaultRate, and is declined otherwise. A fixed seed makes a run
// reproducible.
//
// It is not a mock for unit tests — tests should use a deterministic stub —
// but a stand-in provider for wiring the engine end to end without a real
// processor.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand

	successRate float64
	faultRate   float64
}

// NewRandom creates a Random gateway. successRate and faultRate must each be
// in [0, 1] and sum to at most 1; the remainder is the decline rate.
func NewRandom(seed int64, successRate, faultRate float64) *Random {
	return &Random{
		rng:         rand.New(rand.NewSource(seed)),
		successRate: successRate,
		faultRate:   faultRate,
	}
}

// Charge implements Gateway.
func (g *Random) Charge(_ context.Context, _ *invoice.Invoice) (Outcome, error) {
	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()

	switch {
	case roll < g.faultRate:
		return "", ErrUnavailable
	case roll < g.faultRate+g.successRate:
		return OutcomeSucceeded, nil
	default:
		return OutcomeDeclined, nil
	}
}
