// Package library owns the loaded dataset and the catalog built from it.
package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/catalog"
	"github.com/w-udagawa/vlingual-cards/internal/dataset"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type source interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

type orderProvider interface {
	OrganizationOrder(ctx context.Context) ([]string, error)
}

// Status describes the last load.
type Status struct {
	Loading  bool      `json:"loading"`
	Fallback bool      `json:"fallback"`
	Error    string    `json:"error,omitempty"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loadedAt,omitzero"`
	Schema   string    `json:"schema,omitempty"`
	Source   string    `json:"source,omitempty"`
	Skipped  int       `json:"skippedRows"`
}

// Blocking reports whether the failure leaves nothing to study.
func (s Status) Blocking() bool { return s.Error != "" && s.Count == 0 }

// call is one load shared by every caller that arrives while it runs.
type call struct {
	done   chan struct{}
	status Status
}

// Service loads the dataset and serves the catalog.
type Service struct {
	src   source
	order orderProvider
	log   *slog.Logger
	now   func() time.Time

	mu       sync.RWMutex
	records  []domain.VocabRecord
	catalog  *catalog.Catalog
	status   Status
	inflight *call
}

// NewService creates a library with an empty catalog. order may be nil. A nil
// src makes Load install the sample data.
func NewService(log *slog.Logger, src source, order orderProvider) *Service {
	return &Service{
		src:     src,
		order:   order,
		log:     log.With("service", "library"),
		now:     time.Now,
		catalog: catalog.Build(nil, catalog.Options{}),
	}
}

// Load fetches and parses the dataset. Concurrent callers wait for the load
// already in flight and share its outcome. Any failure switches to the
// sample data; the failure is reported in Status.Error, not as an error.
// The error is non-nil only when ctx ends while waiting.
func (s *Service) Load(ctx context.Context) (Status, error) {
	s.mu.Lock()
	if c := s.inflight; c != nil {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.status, nil
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight = c
	s.status.Loading = true
	s.mu.Unlock()

	c.status = s.load(ctx)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(c.done)
	return c.status, nil
}

func (s *Service) load(ctx context.Context) Status {
	if s.src == nil {
		return s.UseSample(ctx)
	}
	name := s.src.Name()
	s.log.InfoContext(ctx, "dataset.load", slog.String("phase", "start"), slog.String("source", name))

	report, err := s.fetch(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "dataset.load",
			slog.String("phase", "error"),
			slog.String("source", name),
			slog.String("error", err.Error()),
			slog.Bool("load_failure", domain.IsLoadFailure(err)),
			slog.Bool("fallback", true),
		)
		st := s.install(ctx, dataset.Sample(), "", 0)
		st.Error = err.Error()
		st.Fallback = true
		st.Source = name
		s.setStatus(st)
		return st
	}

	for _, row := range report.Skipped {
		s.log.WarnContext(ctx, "dataset.row_skipped",
			slog.Int("line", row.Line),
			slog.String("reason", string(row.Reason)),
			slog.String("detail", row.Detail),
		)
	}

	st := s.install(ctx, report.Records, report.Schema.String(), len(report.Skipped))
	st.Source = name
	s.setStatus(st)
	s.log.InfoContext(ctx, "dataset.load",
		slog.String("phase", "success"),
		slog.String("source", name),
		slog.String("schema", st.Schema),
		slog.Int("cards", st.Count),
		slog.Int("skipped_rows", st.Skipped),
		slog.Bool("fallback", false),
	)
	return st
}

func (s *Service) fetch(ctx context.Context) (*dataset.Report, error) {
	text, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.Parse(text)
}

// UseSample replaces the dataset with the sample data and clears the error.
func (s *Service) UseSample(ctx context.Context) Status {
	st := s.install(ctx, dataset.Sample(), "", 0)
	st.Fallback = true
	st.Source = "sample"
	s.setStatus(st)
	s.log.InfoContext(ctx, "dataset.load",
		slog.String("phase", "sample"),
		slog.Int("cards", st.Count),
		slog.Bool("fallback", true),
	)
	return st
}

// install replaces records and catalog together so readers never see a mix
// of two datasets.
func (s *Service) install(ctx context.Context, records []domain.VocabRecord, schema string, skipped int) Status {
	cat := s.build(ctx, records)

	s.mu.Lock()
	s.records = records
	s.catalog = cat
	s.mu.Unlock()

	return Status{
		Count:    len(records),
		LoadedAt: s.now(),
		Schema:   schema,
		Skipped:  skipped,
	}
}

func (s *Service) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Service) build(ctx context.Context, records []domain.VocabRecord) *catalog.Catalog {
	var order []string
	if s.order != nil {
		o, err := s.order.OrganizationOrder(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "organization order unavailable", slog.String("error", err.Error()))
		} else {
			order = o
		}
	}

	cat := catalog.Build(records, catalog.Options{OrganizationOrder: order})
	for _, sk := range cat.Skipped() {
		s.log.WarnContext(ctx, "catalog.video_skipped",
			slog.String("word", sk.Term),
			slog.String("url", sk.VideoURL),
		)
	}
	return cat
}

// Rebuild regroups the current records, picking up a changed organization
// order.
func (s *Service) Rebuild(ctx context.Context) {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	cat := s.build(ctx, records)

	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()
}

// Status returns the last load status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Catalog returns the current catalog. It is never nil.
func (s *Service) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Records returns the loaded records in dataset order.
func (s *Service) Records() []domain.VocabRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Pool resolves ref against the current catalog.
func (s *Service) Pool(ref domain.PoolRef) ([]domain.VocabRecord, error) {
	return s.Catalog().Pool(ref)
}
