package store

import (
	"context"
	"sync"
	"time"

	kycmodel "safetrail/internal/kyc/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// MemoryStore is an in-memory identity verification store for unit tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[id.KYCID]*kycmodel.Record
	order   []id.KYCID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[id.KYCID]*kycmodel.Record)}
}

func (s *MemoryStore) Create(ctx context.Context, record *kycmodel.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *record
	s.records[record.ID] = &clone
	s.order = append(s.order, record.ID)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, kycID id.KYCID) (*kycmodel.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[kycID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) Latest(ctx context.Context, userID id.UserID) (*kycmodel.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		record := s.records[s.order[i]]
		if record.UserID == userID {
			clone := *record
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) HasPending(ctx context.Context, userID id.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.UserID == userID && record.Status == kycmodel.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) MarkVerified(ctx context.Context, kycID id.KYCID, hash, ledgerTxRef string) (*kycmodel.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[kycID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if record.Status != kycmodel.StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	record.Status = kycmodel.StatusVerified
	record.Hash = &hash
	record.LedgerTxRef = &ledgerTxRef
	record.UpdatedAt = time.Now().UTC()
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) MarkRejected(ctx context.Context, kycID id.KYCID, reason string) (*kycmodel.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[kycID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if record.Status != kycmodel.StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	record.Status = kycmodel.StatusRejected
	record.RejectionReason = &reason
	record.UpdatedAt = time.Now().UTC()
	clone := *record
	return &clone, nil
}
