// Package scheduler picks the next card to show. It holds no study state:
// every call receives the pool and a progress snapshot.
package scheduler

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/progress"
)

// DefaultTopN bounds the weighted review candidates.
const DefaultTopN = 10

// Strategy names how a card was chosen.
type Strategy string

const (
	StrategyUnseen   Strategy = "unseen"
	StrategyScore    Strategy = "score"
	StrategyWeighted Strategy = "weighted"
	StrategyMastery  Strategy = "mastery"
)

// Selection describes one scheduling decision.
type Selection struct {
	Card       domain.VocabRecord
	Strategy   Strategy
	Score      int
	Candidates int
}

// Options configures a Scheduler.
type Options struct {
	Policy domain.Policy

	// Deterministic picks the single highest score instead of weighted
	// random among the top N.
	Deterministic bool
	TopN          int

	// Rand is the randomness source. Nil seeds one from the clock.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Scheduler selects cards under one policy. Safe for concurrent use.
type Scheduler struct {
	policy        domain.Policy
	deterministic bool
	topN          int
	log           *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	if opts.Policy == "" {
		opts.Policy = domain.PolicyCounter
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Scheduler{
		policy:        opts.Policy,
		deterministic: opts.Deterministic,
		topN:          opts.TopN,
		rnd:           opts.Rand,
		log:           opts.Logger.With("service", "scheduler"),
	}
}

// Policy returns the policy the scheduler was built for.
func (s *Scheduler) Policy() domain.Policy { return s.policy }

// SelectNext returns the next card, or false when there is none: the pool is
// empty, or every word is mastered under the mastery policy.
func (s *Scheduler) SelectNext(pool []domain.VocabRecord, st progress.State) (domain.VocabRecord, bool) {
	sel, ok := s.Select(pool, st)
	return sel.Card, ok
}

// Select is SelectNext with the decision details.
func (s *Scheduler) Select(pool []domain.VocabRecord, st progress.State) (Selection, bool) {
	if len(pool) == 0 {
		return Selection{}, false
	}

	var (
		sel Selection
		ok  bool
	)
	switch s.policy {
	case domain.PolicyMastery:
		sel, ok = s.selectMastery(pool, st)
	default:
		sel, ok = s.selectCounter(pool, st)
	}
	if !ok {
		return Selection{}, false
	}

	s.log.Debug("card.select",
		slog.String("strategy", string(sel.Strategy)),
		slog.String("word", sel.Card.Term),
		slog.Int("score", sel.Score),
		slog.Int("candidates", sel.Candidates),
		slog.Int("pool", len(pool)),
	)
	return sel, true
}

func (s *Scheduler) selectCounter(pool []domain.VocabRecord, st progress.State) (Selection, bool) {
	var unseen []domain.VocabRecord
	for i := range pool {
		if st.Seen(pool[i].Term) == 0 {
			unseen = append(unseen, pool[i])
		}
	}
	if len(unseen) > 0 {
		return Selection{
			Card:       unseen[s.intN(len(unseen))],
			Strategy:   StrategyUnseen,
			Candidates: len(unseen),
		}, true
	}

	ranked := Rank(pool, st)
	if s.deterministic {
		return Selection{
			Card:       ranked[0].Card,
			Strategy:   StrategyScore,
			Score:      ranked[0].Score,
			Candidates: len(ranked),
		}, true
	}

	top := ranked[:min(s.topN, len(ranked))]
	total := 0
	for _, c := range top {
		total += weight(c.Score)
	}
	r := s.intN(total)
	for _, c := range top {
		r -= weight(c.Score)
		if r < 0 {
			return Selection{Card: c.Card, Strategy: StrategyWeighted, Score: c.Score, Candidates: len(top)}, true
		}
	}
	// Unreachable while weights are positive.
	last := top[len(top)-1]
	return Selection{Card: last.Card, Strategy: StrategyWeighted, Score: last.Score, Candidates: len(top)}, true
}

func (s *Scheduler) selectMastery(pool []domain.VocabRecord, st progress.State) (Selection, bool) {
	var remaining []domain.VocabRecord
	for i := range pool {
		if !st.Mastered(pool[i].Term) {
			remaining = append(remaining, pool[i])
		}
	}
	if len(remaining) == 0 {
		return Selection{}, false
	}
	return Selection{
		Card:       remaining[s.intN(len(remaining))],
		Strategy:   StrategyMastery,
		Candidates: len(remaining),
	}, true
}

func (s *Scheduler) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// Ranked is a card with its review score.
type Ranked struct {
	Card  domain.VocabRecord
	Score int
}

// Rank orders pool by descending score; equal scores keep input order.
func Rank(pool []domain.VocabRecord, st progress.State) []Ranked {
	out := make([]Ranked, len(pool))
	for i := range pool {
		e, _ := st.Entry(pool[i].Term)
		out[i] = Ranked{Card: pool[i], Score: e.Score()}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func weight(score int) int { return max(score, 1) }

// ApplyFilter narrows pool by mode. When the narrowed pool would be empty the
// filter is dropped and the full pool returned with FilterAll.
func ApplyFilter(pool []domain.VocabRecord, st progress.State, mode domain.FilterMode) ([]domain.VocabRecord, domain.FilterMode) {
	if mode != domain.FilterAgainOnly {
		return pool, domain.FilterAll
	}

	var out []domain.VocabRecord
	for i := range pool {
		if e, ok := st.Entry(pool[i].Term); ok && e.Again > 0 {
			out = append(out, pool[i])
		}
	}
	if len(out) == 0 {
		return pool, domain.FilterAll
	}
	return out, domain.FilterAgainOnly
}
