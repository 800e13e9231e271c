package experiment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// MemoryStore is an in-process Store. Expired experiments are treated as
// absent and dropped on access; DeleteExpired sweeps them together with
// their results.
type MemoryStore struct {
	mu          sync.RWMutex
	experiments map[string]Record
	results     map[string]ResultRecord
	now         func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		experiments: make(map[string]Record),
		results:     make(map[string]ResultRecord),
		now:         time.Now,
	}
}

// StartExperiment implements Store.
func (s *MemoryStore) StartExperiment(_ context.Context, rec Record) error {
	if rec.Status != StatusStarted {
		return transitionError(rec.ID, "", rec.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.experiments[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
	}
	s.experiments[rec.ID] = rec
	return nil
}

// FinishExperiment implements Store.
func (s *MemoryStore) FinishExperiment(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !CanTransition(rec.Status, status) {
		return transitionError(id, rec.Status, status)
	}
	rec.Status = status
	s.experiments[id] = rec
	return nil
}

// GetExperiment implements Store.
func (s *MemoryStore) GetExperiment(_ context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookup(id)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// lookup returns a live record, deleting it when expired. Callers hold mu.
func (s *MemoryStore) lookup(id string) (Record, bool) {
	rec, ok := s.experiments[id]
	if !ok {
		return Record{}, false
	}
	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		delete(s.experiments, id)
		return Record{}, false
	}
	return rec, true
}

// SaveResult implements Store.
func (s *MemoryStore) SaveResult(_ context.Context, res ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[res.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, res.ID)
	}
	res.Route = tsp.CopyTour(res.Route)
	s.results[res.ID] = res
	return nil
}

// GetResult implements Store.
func (s *MemoryStore) GetResult(_ context.Context, id string) (ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[id]
	if !ok {
		return ResultRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return res, nil
}

// DeleteExpired removes expired experiments and every result whose
// experiment is no longer live, and reports how many records were removed.
func (s *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id := range s.experiments {
		if _, ok := s.lookup(id); !ok {
			n++
		}
	}
	for id, res := range s.results {
		if _, ok := s.experiments[res.ExperimentID]; !ok {
			delete(s.results, id)
			n++
		}
	}
	return n, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
