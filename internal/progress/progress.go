// Package progress tracks what the learner has rated. Two policies share one
// interface: persisted per-word counters, and a session-scoped mastery set.
package progress

import (
	"context"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store records ratings under one policy.
type Store interface {
	// Load switches to the progress of a pool. videoID is empty for the
	// global scope.
	Load(ctx context.Context, videoID string) error
	Record(ctx context.Context, term string, r domain.Rating) error
	Reset(ctx context.Context) error
	IsExhausted(pool []domain.VocabRecord) bool
	Snapshot() State
	Policy() domain.Policy
}

// State is an immutable view of progress used by the scheduler.
type State struct {
	entries  domain.ProgressData
	mastered map[string]struct{}
}

// NewState builds a State from counters and mastered terms. Both may be nil.
func NewState(entries domain.ProgressData, mastered []string) State {
	st := State{entries: entries.Clone(), mastered: make(map[string]struct{}, len(mastered))}
	for _, t := range mastered {
		st.mastered[t] = struct{}{}
	}
	return st
}

// Entry returns the counters of term.
func (s State) Entry(term string) (domain.ProgressEntry, bool) {
	e, ok := s.entries[term]
	return e, ok
}

// Seen returns how many times term was rated.
func (s State) Seen(term string) int {
	return s.entries[term].Seen
}

// Mastered reports whether term was rated easy in this session.
func (s State) Mastered(term string) bool {
	_, ok := s.mastered[term]
	return ok
}

// Entries returns a copy of every counter.
func (s State) Entries() domain.ProgressData { return s.entries.Clone() }

// MasteredCount is the size of the mastered set.
func (s State) MasteredCount() int { return len(s.mastered) }

// StudiedCount is the number of pool terms rated at least once.
func (s State) StudiedCount(pool []domain.VocabRecord) int {
	n := 0
	for i := range pool {
		if s.entries[pool[i].Term].Seen > 0 || s.Mastered(pool[i].Term) {
			n++
		}
	}
	return n
}
