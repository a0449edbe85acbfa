package study

import "github.com/w-udagawa/vlingual-cards/internal/domain"

// Phase is the card area's lifecycle state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseTransitioning Phase = "transitioning"
	PhaseComplete      Phase = "complete"
)

// State is a snapshot of one study session.
type State struct {
	Pool     domain.PoolRef
	Cards    []domain.VocabRecord
	Current  *domain.VocabRecord
	Flipped  bool
	Phase    Phase
	Filter   domain.FilterMode
	Reviewed int
	Policy   domain.Policy

	// Progress indicators over the unfiltered pool.
	PoolSize int
	Studied  int
	Mastered int
	Entry    *domain.ProgressEntry
}

func (s State) clone() State {
	out := s
	out.Cards = append([]domain.VocabRecord(nil), s.Cards...)
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	if s.Entry != nil {
		e := *s.Entry
		out.Entry = &e
	}
	return out
}

// Result is the outcome of a user action. Accepted is false when the action
// was ignored because of the current phase.
type Result struct {
	Accepted bool
	State    State
}
