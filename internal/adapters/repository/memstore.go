package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// history keeps the two snapshots retained per variant plus a rank index
// over the latest one.
type history struct {
	latest   *Snapshot
	previous *Snapshot
	index    map[string]model.TeamScore
}

// memStore is an RWMutex-guarded in-memory Store.
type memStore struct {
	mu       sync.RWMutex
	variants map[Variant]*history
	now      func() time.Time
}

// NewMemStore creates an in-memory snapshot store.
func NewMemStore(opts ...Option) Store {
	s := &memStore{
		variants: make(map[Variant]*history),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memStore) SetRankings(ctx context.Context, variant Variant, snap Snapshot) error {
	if len(snap.Scores) == 0 {
		return ErrEmptySnapshot
	}
	if snap.ComputedAt.IsZero() {
		snap.ComputedAt = s.now()
	}

	index := make(map[string]model.TeamScore, len(snap.Scores))
	for _, score := range snap.Scores {
		index[score.TeamID] = score
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.variants[variant]
	if !ok {
		h = &history{}
		s.variants[variant] = h
	}
	h.previous = h.latest
	h.latest = &snap
	h.index = index
	return nil
}

func (s *memStore) Latest(ctx context.Context, variant Variant) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.variants[variant]
	if !ok || h.latest == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return cloneSnapshot(h.latest), nil
}

func (s *memStore) Previous(ctx context.Context, variant Variant) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.variants[variant]
	if !ok || h.previous == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return cloneSnapshot(h.previous), nil
}

func (s *memStore) TeamRank(ctx context.Context, variant Variant, teamID string) (model.TeamScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.variants[variant]
	if !ok || h.latest == nil {
		return model.TeamScore{}, ErrNoSnapshot
	}
	score, ok := h.index[teamID]
	if !ok {
		return model.TeamScore{}, ErrNotFound
	}
	return score, nil
}

func (s *memStore) Count(ctx context.Context, variant Variant) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.variants[variant]
	if !ok || h.latest == nil {
		return 0
	}
	return len(h.latest.Scores)
}

// cloneSnapshot copies the score slice so callers cannot mutate stored state.
func cloneSnapshot(snap *Snapshot) Snapshot {
	out := *snap
	out.Scores = make([]model.TeamScore, len(snap.Scores))
	copy(out.Scores, snap.Scores)
	return out
}
