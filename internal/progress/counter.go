package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// CounterStore keeps seen/again/ok/easy counters per word in the key/value
// store. Each rating rewrites the whole object of the loaded scope.
type CounterStore struct {
	kv  kvStore
	log *slog.Logger

	mu   sync.Mutex
	key  string
	data domain.ProgressData
}

// NewCounterStore creates a counter store on the global scope. Call Load
// before use.
func NewCounterStore(log *slog.Logger, kv kvStore) *CounterStore {
	return &CounterStore{
		kv:   kv,
		log:  log.With("service", "progress"),
		key:  domain.ProgressKey(""),
		data: domain.ProgressData{},
	}
}

// Policy returns domain.PolicyCounter.
func (s *CounterStore) Policy() domain.Policy { return domain.PolicyCounter }

// Load reads the persisted counters of a scope. A corrupt value is logged
// and treated as empty.
func (s *CounterStore) Load(ctx context.Context, videoID string) error {
	key := domain.ProgressKey(videoID)
	data, err := ReadProgress(ctx, s.kv, s.log, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.key = key
	s.data = data
	s.mu.Unlock()
	return nil
}

// Record increments the counters of term and writes the scope back.
func (s *CounterStore) Record(ctx context.Context, term string, r domain.Rating) error {
	if !r.IsValid() {
		return domain.NewValidationError("rating", "must be one of again, ok, easy")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	next[term] = next[term].Apply(r)

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	s.data = next
	return nil
}

// Reset deletes the persisted counters of the loaded scope.
func (s *CounterStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.data = domain.ProgressData{}
	return nil
}

// IsExhausted is always false: counter pools cycle forever.
func (s *CounterStore) IsExhausted([]domain.VocabRecord) bool { return false }

// Snapshot returns the current counters.
func (s *CounterStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewState(s.data, nil)
}

// Key returns the persisted key of the loaded scope.
func (s *CounterStore) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

type kvReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// ReadProgress loads and decodes the counters stored under key. Missing or
// corrupt values yield empty progress.
func ReadProgress(ctx context.Context, kv kvReader, log *slog.Logger, key string) (domain.ProgressData, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load progress %s: %w", key, err)
	}
	data := domain.ProgressData{}
	if !ok {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
		log.Warn("prefs.corrupt", slog.String("key", key), slog.Any("error", err))
		return domain.ProgressData{}, nil
	}
	return data, nil
}
