package store

import (
	"context"
	"sort"
	"sync"

	credmodel "safetrail/internal/credential/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

type userTrip struct {
	user id.UserID
	trip id.TripID
}

// MemoryStore is an in-memory credential store for unit tests.
type MemoryStore struct {
	mu     sync.Mutex
	byID   map[id.CredentialID]*credmodel.Credential
	byPair map[userTrip]id.CredentialID
	seq    int64
	order  map[id.CredentialID]int64

	// FailNextCreate makes the next Create return ErrUnavailable so tests can
	// drive the partial-issuance path.
	FailNextCreate bool
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[id.CredentialID]*credmodel.Credential),
		byPair: make(map[userTrip]id.CredentialID),
		order:  make(map[id.CredentialID]int64),
	}
}

func (s *MemoryStore) Create(ctx context.Context, credential *credmodel.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextCreate {
		s.FailNextCreate = false
		return sentinel.ErrUnavailable
	}
	pair := userTrip{user: credential.UserID, trip: credential.TripID}
	if _, exists := s.byPair[pair]; exists {
		return sentinel.ErrConflict
	}
	clone := *credential
	s.seq++
	s.byID[credential.ID] = &clone
	s.byPair[pair] = credential.ID
	s.order[credential.ID] = s.seq
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*credmodel.Credential
	for _, c := range s.byID {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	return out, nil
}

func (s *MemoryStore) GetByUserAndTrip(ctx context.Context, userID id.UserID, tripID id.TripID) (*credmodel.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	credID, ok := s.byPair[userTrip{user: userID, trip: tripID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.byID[credID]
	return &clone, nil
}
