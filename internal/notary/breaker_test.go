package notary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetrail/pkg/platform/circuit"
)

type flakyNotarizer struct {
	failures int
	calls    int
}

func (f *flakyNotarizer) Notarize(ctx context.Context, payload string) (Receipt, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return Receipt{}, errors.New("ledger unreachable")
	}
	return Receipt{Hash: "kyc_1_abc", TxRef: "0x01"}, nil
}

func TestBreakerNotarizer_PassesThroughWhenHealthy(t *testing.T) {
	inner := &flakyNotarizer{}
	n := WithBreaker(inner, circuit.New("notary", circuit.WithFailureThreshold(2)), nil)

	receipt, err := n.Notarize(context.Background(), "kyc:a:trip:b")
	require.NoError(t, err)
	assert.Equal(t, "kyc_1_abc", receipt.Hash)
}

func TestBreakerNotarizer_FailsFastAfterThreshold(t *testing.T) {
	inner := &flakyNotarizer{failures: 3}
	breaker := circuit.New("notary", circuit.WithFailureThreshold(2))
	n := WithBreaker(inner, breaker, nil)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	n.clock = func() time.Time { return now }

	_, err := n.Notarize(context.Background(), "p")
	require.Error(t, err)
	_, err = n.Notarize(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, breaker.IsOpen())

	// Third call wins the probe claim; the backend fails once more.
	_, err = n.Notarize(context.Background(), "p")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, inner.calls)

	// Within the probe interval the open circuit rejects without touching
	// the backend at all.
	_, err = n.Notarize(context.Background(), "p")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, inner.calls, "no backend call while waiting for the next probe")

	// After the interval the backend has recovered; the probe closes the
	// circuit.
	now = now.Add(DefaultProbeInterval)
	receipt, err := n.Notarize(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "0x01", receipt.TxRef)
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 4, inner.calls)
}
