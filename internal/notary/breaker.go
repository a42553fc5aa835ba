package notary

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"safetrail/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the breaker is short-circuiting calls.
var ErrCircuitOpen = errors.New("notary circuit open")

// DefaultProbeInterval is how long an open circuit rejects calls outright
// before letting a single call through to test the backend.
const DefaultProbeInterval = 30 * time.Second

// BreakerNotarizer wraps a Notarizer with a circuit breaker. Once the backend
// fails repeatedly, issuance fails fast with ErrCircuitOpen instead of holding
// the identity-update workflow open on a dead collaborator. While open, one
// call per probe interval is let through so the breaker can observe recovery.
type BreakerNotarizer struct {
	next    Notarizer
	breaker *circuit.Breaker
	logger  *slog.Logger
	clock   func() time.Time

	mu        sync.Mutex
	nextProbe time.Time
}

// WithBreaker decorates next. logger may be nil.
func WithBreaker(next Notarizer, breaker *circuit.Breaker, logger *slog.Logger) *BreakerNotarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if breaker == nil {
		breaker = circuit.New("notary")
	}
	return &BreakerNotarizer{next: next, breaker: breaker, logger: logger, clock: time.Now}
}

func (b *BreakerNotarizer) Notarize(ctx context.Context, payload string) (Receipt, error) {
	if b.breaker.IsOpen() {
		if !b.claimProbe() {
			return Receipt{}, ErrCircuitOpen
		}
		receipt, err := b.next.Notarize(ctx, payload)
		if err != nil {
			b.breaker.RecordFailure()
			return Receipt{}, ErrCircuitOpen
		}
		if _, change := b.breaker.RecordSuccess(); change.Closed {
			b.logger.InfoContext(ctx, "notary circuit closed", "breaker", b.breaker.Name())
		}
		return receipt, nil
	}

	receipt, err := b.next.Notarize(ctx, payload)
	if err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "notary circuit opened",
				"breaker", b.breaker.Name(),
				"error", err.Error(),
			)
		}
		return Receipt{}, err
	}
	b.breaker.RecordSuccess()
	return receipt, nil
}

// claimProbe reports whether this call may probe the backend. At most one
// call per probe interval wins the claim; the rest fail fast.
func (b *BreakerNotarizer) claimProbe() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock()
	if now.Before(b.nextProbe) {
		return false
	}
	b.nextProbe = now.Add(DefaultProbeInterval)
	return true
}
