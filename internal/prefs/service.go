// Package prefs reads and writes the learner's persisted preferences.
// Corrupt values are logged and treated as absent.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Service provides typed access to persisted preferences.
type Service struct {
	store store
	log   *slog.Logger
}

// NewService creates a new preferences service.
func NewService(log *slog.Logger, store store) *Service {
	return &Service{
		store: store,
		log:   log.With("service", "prefs"),
	}
}

// AudioEnabled reports whether pronunciation plays on reveal. Default false.
func (s *Service) AudioEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, domain.KeyAudioEnabled)
}

// SetAudioEnabled persists the audio toggle.
func (s *Service) SetAudioEnabled(ctx context.Context, enabled bool) error {
	return s.store.Set(ctx, domain.KeyAudioEnabled, strconv.FormatBool(enabled))
}

// BannerDismissed reports whether the install prompt was dismissed.
func (s *Service) BannerDismissed(ctx context.Context) (bool, error) {
	return s.getBool(ctx, domain.KeyBannerDismissed)
}

// DismissBanner remembers that the install prompt was dismissed.
func (s *Service) DismissBanner(ctx context.Context) error {
	return s.store.Set(ctx, domain.KeyBannerDismissed, "true")
}

// Theme returns the stored theme, or systemDefault when none is stored.
func (s *Service) Theme(ctx context.Context, systemDefault domain.Theme) (domain.Theme, error) {
	v, ok, err := s.store.Get(ctx, domain.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	if !ok {
		return systemDefault, nil
	}
	t := domain.Theme(v)
	if !t.IsValid() {
		s.corrupt(domain.KeyTheme, fmt.Errorf("unknown theme %q", v))
		return systemDefault, nil
	}
	return t, nil
}

// SetTheme persists an explicit theme choice.
func (s *Service) SetTheme(ctx context.Context, t domain.Theme) error {
	if !t.IsValid() {
		return domain.NewValidationError("theme", "must be light or dark")
	}
	return s.store.Set(ctx, domain.KeyTheme, string(t))
}

// OrganizationOrder returns the organization display override, or nil.
func (s *Service) OrganizationOrder(ctx context.Context) ([]string, error) {
	var order []string
	ok, err := s.getJSON(ctx, domain.KeyAgencyOrder, &order)
	if err != nil || !ok {
		return nil, err
	}
	return order, nil
}

// SetOrganizationOrder persists the override. Names are normalized; blanks
// and duplicates are dropped. An empty list resets the override.
func (s *Service) SetOrganizationOrder(ctx context.Context, order []string) error {
	clean := make([]string, 0, len(order))
	for _, name := range order {
		name = domain.NormalizeName(name)
		if name == "" || slices.Contains(clean, name) {
			continue
		}
		clean = append(clean, name)
	}
	if len(clean) == 0 {
		return s.ResetOrganizationOrder(ctx)
	}
	return s.setJSON(ctx, domain.KeyAgencyOrder, clean)
}

// ResetOrganizationOrder removes the override.
func (s *Service) ResetOrganizationOrder(ctx context.Context) error {
	return s.store.Remove(ctx, domain.KeyAgencyOrder)
}

// CheckedTerms returns the terms marked known for a video.
func (s *Service) CheckedTerms(ctx context.Context, videoID string) (map[string]bool, error) {
	all, err := s.checked(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(all[videoID]))
	for _, term := range all[videoID] {
		out[term] = true
	}
	return out, nil
}

// ToggleChecked flips the known mark of term in a video and returns the new
// state.
func (s *Service) ToggleChecked(ctx context.Context, videoID, term string) (bool, error) {
	if videoID == "" || term == "" {
		return false, domain.NewValidationError("term", "video id and term are required")
	}

	all, err := s.checked(ctx)
	if err != nil {
		return false, err
	}

	terms := all[videoID]
	checked := !slices.Contains(terms, term)
	if checked {
		terms = append(terms, term)
	} else {
		terms = slices.DeleteFunc(terms, func(t string) bool { return t == term })
	}

	if len(terms) == 0 {
		delete(all, videoID)
	} else {
		all[videoID] = terms
	}
	return checked, s.setJSON(ctx, domain.KeyChecked, all)
}

// ClearChecked removes every known mark of a video.
func (s *Service) ClearChecked(ctx context.Context, videoID string) error {
	all, err := s.checked(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[videoID]; !ok {
		return nil
	}
	delete(all, videoID)
	return s.setJSON(ctx, domain.KeyChecked, all)
}

// CheckedByVideo returns every video's known terms in one read.
func (s *Service) CheckedByVideo(ctx context.Context) (map[string][]string, error) {
	return s.checked(ctx)
}

func (s *Service) checked(ctx context.Context) (map[string][]string, error) {
	all := make(map[string][]string)
	ok, err := s.getJSON(ctx, domain.KeyChecked, &all)
	if err != nil {
		return nil, err
	}
	if !ok || all == nil {
		return make(map[string][]string), nil
	}
	return all, nil
}

// Export returns every persisted key this application owns.
func (s *Service) Export(ctx context.Context) (map[string]string, error) {
	keys := []string{
		domain.KeyAudioEnabled,
		domain.KeyTheme,
		domain.KeyAgencyOrder,
		domain.KeyChecked,
		domain.KeyBannerDismissed,
	}
	progressKeys, err := s.store.Keys(ctx, domain.KeyProgress)
	if err != nil {
		return nil, fmt.Errorf("list progress keys: %w", err)
	}
	keys = append(keys, progressKeys...)

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := s.store.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", k, err)
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

// Import writes a backup produced by Export in one batch. Unknown keys and
// malformed values are rejected before anything is written.
func (s *Service) Import(ctx context.Context, values map[string]string) error {
	var errs []domain.FieldError

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if msg := validateValue(k, values[k]); msg != "" {
			errs = append(errs, domain.FieldError{Field: k, Message: msg})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}

	if err := s.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	s.log.InfoContext(ctx, "state.import", slog.Int("keys", len(values)))
	return nil
}

func validateValue(key, value string) string {
	switch {
	case key == domain.KeyAudioEnabled, key == domain.KeyBannerDismissed:
		if _, err := strconv.ParseBool(value); err != nil {
			return "must be true or false"
		}
	case key == domain.KeyTheme:
		if !domain.Theme(value).IsValid() {
			return "must be light or dark"
		}
	case key == domain.KeyAgencyOrder:
		var v []string
		if json.Unmarshal([]byte(value), &v) != nil {
			return "must be a JSON array of strings"
		}
	case key == domain.KeyChecked:
		var v map[string][]string
		if json.Unmarshal([]byte(value), &v) != nil {
			return "must be a JSON object of string arrays"
		}
	case key == domain.KeyProgress, strings.HasPrefix(key, domain.KeyProgress+":"):
		var v domain.ProgressData
		if json.Unmarshal([]byte(value), &v) != nil {
			return "must be a JSON progress object"
		}
	default:
		return "unknown key"
	}
	return ""
}

func (s *Service) getBool(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.corrupt(key, err)
		return false, nil
	}
	return b, nil
}

// getJSON decodes key into dst. A corrupt value is logged and reported as
// absent.
func (s *Service) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		s.corrupt(key, err)
		return false, nil
	}
	return true, nil
}

func (s *Service) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, string(raw))
}

func (s *Service) corrupt(key string, err error) {
	s.log.Warn("prefs.corrupt", slog.String("key", key), slog.String("error", err.Error()))
}
