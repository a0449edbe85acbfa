// Package file implements the key/value store as one JSON object on disk.
//
// Every operation re-reads the file under an advisory lock so that several
// processes sharing the file see each other's writes. Concurrent writers
// follow last-writer-wins per operation; the file itself is never torn
// because writes go to a temporary file that is renamed into place.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// Store persists key/value pairs in a JSON file.
type Store struct {
	path string
	lock *flock.Flock
	log  *slog.Logger
	mu   sync.Mutex
}

// Open prepares a store at path, creating parent directories. The file
// itself is created on first write. A file that does not decode is read as
// empty and moved aside to <path>.corrupt by the next write.
func Open(path string, log *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: path is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  log.With("adapter", "file"),
	}, nil
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Get returns the value of key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := s.withLock(ctx, false, func(data map[string]string) (bool, error) {
		v, ok = data[key]
		return false, nil
	})
	return v, ok, err
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.withLock(ctx, true, func(data map[string]string) (bool, error) {
		data[key] = value
		return true, nil
	})
}

// SetMany stores every pair in one write.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return s.withLock(ctx, true, func(data map[string]string) (bool, error) {
		for k, v := range values {
			data[k] = v
		}
		return true, nil
	})
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.withLock(ctx, true, func(data map[string]string) (bool, error) {
		if _, ok := data[key]; !ok {
			return false, nil
		}
		delete(data, key)
		return true, nil
	})
}

// Keys returns the sorted keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := s.withLock(ctx, false, func(data map[string]string) (bool, error) {
		for k := range data {
			if strings.HasPrefix(k, prefix) {
				out = append(out, k)
			}
		}
		return false, nil
	})
	sort.Strings(out)
	return out, err
}

// Ping checks that the state file, if present, is readable.
func (s *Store) Ping(ctx context.Context) error {
	return s.withLock(ctx, false, func(map[string]string) (bool, error) { return false, nil })
}

// Close releases the lock file handle.
func (s *Store) Close() error {
	return s.lock.Close()
}

// withLock loads the file, runs fn and saves when fn reports a change.
func (s *Store) withLock(ctx context.Context, write bool, fn func(map[string]string) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if write {
		err = s.lock.Lock()
	} else {
		err = s.lock.RLock()
	}
	if err != nil {
		return fmt.Errorf("lock state file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, corrupt, err := s.load()
	if err != nil {
		return err
	}
	if corrupt != nil {
		s.log.WarnContext(ctx, "prefs.corrupt",
			slog.String("path", s.path),
			slog.String("error", corrupt.Error()),
		)
	}

	changed, err := fn(data)
	if err != nil || !changed {
		return err
	}
	if corrupt != nil {
		if err := os.Rename(s.path, s.path+".corrupt"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move corrupt state file aside: %w", err)
		}
	}
	return s.save(data)
}

// load reads the state file. A missing or blank file is empty state; a file
// that fails to decode is also empty state, with the decode error returned as
// corrupt.
func (s *Store) load() (data map[string]string, corrupt error, err error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read state file: %w", err)
	}

	data = make(map[string]string)
	if len(strings.TrimSpace(string(raw))) == 0 {
		return data, nil, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return make(map[string]string), errors.Join(domain.ErrCorruptState, err), nil
	}
	return data, nil, nil
}

func (s *Store) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
