package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/okian/dailyword/internal/domain/model"
)

// MemoryStore is an in-process word table. Reads return copies so callers
// can never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]model.WordRecord
	byActive map[string]map[string]struct{} // active date -> ids
	closed   bool
}

// NewMemoryStore constructs an empty store, optionally pre-loaded with records.
func NewMemoryStore(records ...model.WordRecord) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]model.WordRecord),
		byActive: make(map[string]map[string]struct{}),
	}
	for _, r := range records {
		s.put(r)
	}
	return s
}

// put stores r and moves only r's own id between date sets.
func (s *MemoryStore) put(r model.WordRecord) {
	if old, ok := s.byID[r.ID]; ok && old.ActiveDate != nil {
		ids := s.byActive[*old.ActiveDate]
		delete(ids, r.ID)
		if len(ids) == 0 {
			delete(s.byActive, *old.ActiveDate)
		}
	}
	r = clone(r)
	s.byID[r.ID] = r
	if r.ActiveDate != nil {
		ids, ok := s.byActive[*r.ActiveDate]
		if !ok {
			ids = make(map[string]struct{})
			s.byActive[*r.ActiveDate] = ids
		}
		ids[r.ID] = struct{}{}
	}
}

// FindByActiveDate implements Store. Like the SQL and Mongo stores, the
// lowest id wins when a race left several records on one date.
func (s *MemoryStore) FindByActiveDate(ctx context.Context, date string) (model.WordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.WordRecord{}, ErrStoreClosed
	}

	var (
		lowest string
		found  bool
	)
	for id := range s.byActive[date] {
		if !found || id < lowest {
			lowest, found = id, true
		}
	}
	if !found {
		return model.WordRecord{}, ErrNotFound
	}
	return clone(s.byID[lowest]), nil
}

// ListCandidates implements Store.
func (s *MemoryStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.WordRecord, error) {
	return s.collect(func(r model.WordRecord) bool { return matchesCandidate(r, filter) })
}

// ListNeverActive implements Store.
func (s *MemoryStore) ListNeverActive(ctx context.Context) ([]model.WordRecord, error) {
	return s.collect(func(r model.WordRecord) bool { return r.ActiveDate == nil })
}

// List implements Provisioner.
func (s *MemoryStore) List(ctx context.Context) ([]model.WordRecord, error) {
	return s.collect(func(model.WordRecord) bool { return true })
}

func (s *MemoryStore) collect(keep func(model.WordRecord) bool) ([]model.WordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	out := make([]model.WordRecord, 0, len(s.byID))
	for _, r := range s.byID {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SumTimesUsed implements Store.
func (s *MemoryStore) SumTimesUsed(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	total := 0
	for _, r := range s.byID {
		total += r.TimesUsed
	}
	return total, nil
}

// UpdateAssignment implements Store. Like a single-row SQL UPDATE, the last
// writer wins; a concurrent assignment of another record to the same date
// is not prevented.
func (s *MemoryStore) UpdateAssignment(ctx context.Context, id string, a Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.ActiveDate = model.Date(a.ActiveDate)
	r.LastUsedDate = model.Date(a.LastUsedDate)
	r.TimesUsed = a.TimesUsed
	s.put(r)
	return nil
}

// Upsert implements Provisioner.
func (s *MemoryStore) Upsert(ctx context.Context, records []model.WordRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	inserted := 0
	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return inserted, err
		}
		if old, ok := s.byID[r.ID]; ok {
			old.WordPrimary = r.WordPrimary
			old.WordSecondary = r.WordSecondary
			s.byID[r.ID] = old
			continue
		}
		s.put(model.WordRecord{ID: r.ID, WordPrimary: r.WordPrimary, WordSecondary: r.WordSecondary})
		inserted++
	}
	return inserted, nil
}

// Close implements Backend.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func clone(r model.WordRecord) model.WordRecord {
	if r.ActiveDate != nil {
		r.ActiveDate = model.Date(*r.ActiveDate)
	}
	if r.LastUsedDate != nil {
		r.LastUsedDate = model.Date(*r.LastUsedDate)
	}
	return r
}

func validateRecord(r model.WordRecord) error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case strings.TrimSpace(r.WordPrimary) == "":
		return fmt.Errorf("%w: %s: missing primary word", ErrInvalidRecord, r.ID)
	case strings.TrimSpace(r.WordSecondary) == "":
		return fmt.Errorf("%w: %s: missing secondary word", ErrInvalidRecord, r.ID)
	}
	return nil
}
