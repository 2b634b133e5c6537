package service

import (
	"sync"

	"episode_syncer/internal/domain"
)

// EpisodeCountStore is the in-memory view of a SyncState during a run.
//
// Records are never removed by the sync algorithms: shows that leave the
// library keep their last known count. Prune exists for the opt-in
// prune_removed setting only.
type EpisodeCountStore struct {
	mu    sync.RWMutex
	state *domain.SyncState
	keys  map[string]domain.ShowID
}

// NewEpisodeCountStore wraps state. The store mutates state in place.
func NewEpisodeCountStore(state *domain.SyncState) *EpisodeCountStore {
	if state == nil {
		state = domain.NewSyncState()
	}
	if state.Counts == nil {
		state.Counts = make(map[domain.ShowID]int)
	}

	s := &EpisodeCountStore{
		state: state,
		keys:  make(map[string]domain.ShowID, len(state.Counts)),
	}
	for id := range state.Counts {
		s.keys[id.Key()] = id
	}
	return s
}

// Get returns the count recorded for a show. An exact match wins over a
// case-insensitive one.
func (s *EpisodeCountStore) Get(id domain.ShowID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, ok := s.state.Counts[id]; ok {
		return n, true
	}
	if stored, ok := s.keys[id.Key()]; ok {
		return s.state.Counts[stored], true
	}
	return 0, false
}

// Upsert records count for a show, overwriting any record whose id matches
// case-insensitively.
func (s *EpisodeCountStore) Upsert(id domain.ShowID, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.keys[id.Key()]; ok {
		id = stored
	}
	s.state.Counts[id] = count
	s.keys[id.Key()] = id
}

// KnownIDs returns the ids of every stored record.
func (s *EpisodeCountStore) KnownIDs() []domain.ShowID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.ShowID, 0, len(s.state.Counts))
	for id := range s.state.Counts {
		ids = append(ids, id)
	}
	return ids
}

func (s *EpisodeCountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Counts)
}

func (s *EpisodeCountStore) SetCursor(cursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastUpdateTime = &cursor
}

func (s *EpisodeCountStore) Cursor() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.LastUpdateTime == nil {
		return "", false
	}
	return *s.state.LastUpdateTime, true
}

func (s *EpisodeCountStore) SetFailed(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastSyncFailed = failed
}

func (s *EpisodeCountStore) Failed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LastSyncFailed
}

// Prune removes records whose ids are not in keep and returns how many were
// removed.
func (s *EpisodeCountStore) Prune(keep []domain.ShowID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := keySet(keep)
	removed := 0
	for id := range s.state.Counts {
		if _, ok := present[id.Key()]; ok {
			continue
		}
		delete(s.state.Counts, id)
		delete(s.keys, id.Key())
		removed++
	}
	return removed
}

// Snapshot returns a copy of the underlying state.
func (s *EpisodeCountStore) Snapshot() *domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
