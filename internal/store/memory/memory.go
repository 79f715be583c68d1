// Package memory implements store.Store in process memory. It backs the
// service when no database is configured and is seeded from fixture files.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

// Store is a mutex-guarded map of records keyed by normalized code.
type Store struct {
	mu   sync.RWMutex
	recs map[string]*model.PortfolioRecord
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		recs: make(map[string]*model.PortfolioRecord),
		now:  time.Now,
	}
}

// NewFromFixture returns a store seeded with every profile in f.
func NewFromFixture(f *store.Fixture) (*Store, error) {
	s := New()
	for _, rec := range f.Records() {
		if err := s.PutPortfolio(context.Background(), rec); err != nil {
			return nil, fmt.Errorf("seed %s: %w", rec.Code, err)
		}
	}
	return s, nil
}

func (s *Store) GetPortfolio(_ context.Context, code string) (*model.PortfolioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[model.NormalizeCode(code)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(rec), nil
}

func (s *Store) RecordView(_ context.Context, code string) (*model.PortfolioRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[model.NormalizeCode(code)]
	if !ok {
		return nil, store.ErrNotFound
	}
	rec.ViewCount++
	return clone(rec), nil
}

func (s *Store) PutPortfolio(_ context.Context, rec *model.PortfolioRecord) error {
	if rec.Portfolio == nil {
		return fmt.Errorf("put portfolio %s: nil document", rec.Code)
	}
	rec.Code = model.NormalizeCode(rec.Code)
	if rec.ViewLimit <= 0 {
		rec.ViewLimit = model.DefaultViewLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	stored := clone(rec)
	if prev, ok := s.recs[rec.Code]; ok {
		stored.ViewCount = prev.ViewCount
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.ViewCount = 0
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.recs[rec.Code] = stored

	rec.ViewCount = stored.ViewCount
	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeletePortfolio(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = model.NormalizeCode(code)
	if _, ok := s.recs[code]; !ok {
		return store.ErrNotFound
	}
	delete(s.recs, code)
	return nil
}

func (s *Store) ListPortfolios(_ context.Context) ([]*model.PortfolioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.PortfolioRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// clone deep-copies a record so callers never alias stored documents.
func clone(rec *model.PortfolioRecord) *model.PortfolioRecord {
	cp := *rec
	if rec.Portfolio != nil {
		// Round-tripping through JSON copies every nested slice.
		data, err := json.Marshal(rec.Portfolio)
		if err == nil {
			var doc model.Portfolio
			if json.Unmarshal(data, &doc) == nil {
				cp.Portfolio = &doc
			}
		}
	}
	return &cp
}
