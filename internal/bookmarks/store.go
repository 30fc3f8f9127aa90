// Package bookmarks keeps the user's ordered set of bookmarked cities and
// persists it through a pluggable Backend on every change.
package bookmarks

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
)

// Backend loads and saves the full ordered bookmark list
type Backend interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, cities []string) error
}

// Recorder receives store observations
type Recorder interface {
	RecordOperation(operation string, duration time.Duration, err error)
	SetCount(n int)
}

// Operation names passed to Recorder
const (
	OpLoad   = "load"
	OpSave   = "save"
	OpToggle = "toggle"
)

// Store is an ordered set of city names. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	cities  []string
	log     logger.Logger
	metrics Recorder
}

// Option customises a Store
type Option func(*Store)

// WithMetrics records store metrics to r
func WithMetrics(r Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// Open loads the bookmark list from backend. Missing or unreadable storage
// yields an empty store and a warning, never an error.
func Open(ctx context.Context, backend Backend, log logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Global().Module("bookmarks")
	}
	s := &Store{backend: backend, log: log}
	for _, opt := range opts {
		opt(s)
	}

	start := time.Now()
	cities, err := backend.Load(ctx)
	s.record(OpLoad, start, err)
	if err != nil {
		s.log.Warn("failed to load bookmarks, starting with an empty list",
			logger.String("cause", err.Error()))
		cities = nil
	}

	s.cities = normalize(cities)
	s.setCount()
	s.log.Debug("bookmarks loaded", logger.Int("count", len(s.cities)))
	return s
}

// normalize drops blanks and duplicates, keeping first occurrences
func normalize(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Toggle removes city when present and appends it otherwise, then persists
// the list. added reports the direction. On a save failure the in-memory
// list is rolled back so it keeps matching storage.
func (s *Store) Toggle(ctx context.Context, city string) (added bool, err error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return false, errors.Newf("bookmark city name is empty").
			Component("bookmarks").
			Category(errors.CategoryValidation).
			Build()
	}

	start := time.Now()
	defer func() { s.record(OpToggle, start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.cities
	next := slices.Clone(previous)
	if i := slices.Index(next, city); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, city)
		added = true
	}

	if err := s.save(ctx, next); err != nil {
		return false, err
	}

	s.cities = next
	s.setCount()
	s.log.Info("bookmark toggled",
		logger.String("city", city),
		logger.Bool("added", added),
		logger.Int("count", len(next)))
	return added, nil
}

func (s *Store) save(ctx context.Context, cities []string) error {
	start := time.Now()
	err := s.backend.Save(ctx, cities)
	s.record(OpSave, start, err)
	if err != nil {
		s.log.Error("failed to persist bookmarks", logger.Error(err))
		return err
	}
	return nil
}

// List returns a copy of the bookmarks in insertion order
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cities)
}

// Contains reports whether city is bookmarked. Matching is exact.
func (s *Store) Contains(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.cities, strings.TrimSpace(city))
}

// Len returns the number of bookmarks
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cities)
}

func (s *Store) record(op string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordOperation(op, time.Since(start), err)
	}
}

func (s *Store) setCount() {
	if s.metrics != nil {
		s.metrics.SetCount(len(s.cities))
	}
}
