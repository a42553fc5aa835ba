// Package notary abstracts the trust-anchor service that notarizes identity
// verifications. The production system would call a distributed-ledger or
// timestamping backend; the simulated implementation fabricates tokens with
// the same shape so the issuance workflow is substitution-ready.
package notary

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// Receipt is the proof returned by a notarization backend.
type Receipt struct {
	// Hash is the integrity hash recorded against the verified identity.
	Hash string
	// TxRef is the ledger transaction reference shared between the identity
	// record and the credential it authorizes.
	TxRef string
}

// Notarizer anchors a payload and returns its receipt.
type Notarizer interface {
	Notarize(ctx context.Context, payload string) (Receipt, error)
}

// SimulatedLedger fabricates receipts locally. Tokens are unique in practice
// via a millisecond timestamp plus a random component.
type SimulatedLedger struct {
	now func() time.Time
}

// NewSimulatedLedger returns a simulated notarization backend. now may be nil,
// in which case time.Now is used.
func NewSimulatedLedger(now func() time.Time) *SimulatedLedger {
	if now == nil {
		now = time.Now
	}
	return &SimulatedLedger{now: now}
}

func (l *SimulatedLedger) Notarize(ctx context.Context, payload string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	suffix, err := randomBase36(9)
	if err != nil {
		return Receipt{}, fmt.Errorf("generate hash suffix: %w", err)
	}
	txBytes := make([]byte, 32)
	if _, err := rand.Read(txBytes); err != nil {
		return Receipt{}, fmt.Errorf("generate tx reference: %w", err)
	}

	return Receipt{
		Hash:  fmt.Sprintf("kyc_%d_%s", l.now().UnixMilli(), suffix),
		TxRef: "0x" + hex.EncodeToString(txBytes),
	}, nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out), nil
}
