package notary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedLedger_ReceiptShape(t *testing.T) {
	fixed := time.UnixMilli(1748771200123)
	ledger := NewSimulatedLedger(func() time.Time { return fixed })

	receipt, err := ledger.Notarize(context.Background(), "kyc:abc")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt.Hash, "kyc_1748771200123_"), "hash %q", receipt.Hash)
	assert.Len(t, receipt.Hash, len("kyc_1748771200123_")+9)

	require.True(t, strings.HasPrefix(receipt.TxRef, "0x"))
	assert.Len(t, receipt.TxRef, 2+64)
	for _, c := range receipt.TxRef[2:] {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestSimulatedLedger_ReceiptsDiffer(t *testing.T) {
	ledger := NewSimulatedLedger(nil)

	first, err := ledger.Notarize(context.Background(), "payload")
	require.NoError(t, err)
	second, err := ledger.Notarize(context.Background(), "payload")
	require.NoError(t, err)

	assert.NotEqual(t, first.TxRef, second.TxRef)
}

func TestSimulatedLedger_CancelledContext(t *testing.T) {
	ledger := NewSimulatedLedger(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ledger.Notarize(ctx, "payload")
	require.Error(t, err)
}
