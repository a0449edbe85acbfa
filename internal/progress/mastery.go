package progress

import (
	"context"
	"sync"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// MasteryStore keeps the set of terms rated easy in the current session.
// Nothing is persisted.
type MasteryStore struct {
	mu       sync.Mutex
	mastered map[string]struct{}
}

// NewMasteryStore creates an empty mastery store.
func NewMasteryStore() *MasteryStore {
	return &MasteryStore{mastered: make(map[string]struct{})}
}

// Policy returns domain.PolicyMastery.
func (s *MasteryStore) Policy() domain.Policy { return domain.PolicyMastery }

// Load starts a new pool with an empty set.
func (s *MasteryStore) Load(context.Context, string) error {
	s.clear()
	return nil
}

// Record adds term to the set when rated easy. Other ratings change nothing.
func (s *MasteryStore) Record(_ context.Context, term string, r domain.Rating) error {
	if !r.IsValid() {
		return domain.NewValidationError("rating", "must be one of again, ok, easy")
	}
	if r != domain.RatingEasy {
		return nil
	}
	s.mu.Lock()
	s.mastered[term] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Reset clears the set.
func (s *MasteryStore) Reset(context.Context) error {
	s.clear()
	return nil
}

// IsExhausted reports whether every term of a non-empty pool is mastered.
func (s *MasteryStore) IsExhausted(pool []domain.VocabRecord) bool {
	if len(pool) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range pool {
		if _, ok := s.mastered[pool[i].Term]; !ok {
			return false
		}
	}
	return true
}

// Snapshot returns the mastered set.
func (s *MasteryStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	terms := make([]string, 0, len(s.mastered))
	for t := range s.mastered {
		terms = append(terms, t)
	}
	return NewState(nil, terms)
}

func (s *MasteryStore) clear() {
	s.mu.Lock()
	s.mastered = make(map[string]struct{})
	s.mu.Unlock()
}
