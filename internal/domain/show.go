package domain

import "strings"

// ShowID is the catalog-assigned identifier of a show. The catalog is not
// consistent about casing, so set operations go through Key.
type ShowID string

// Key returns the case-folded form used for set membership.
func (id ShowID) Key() string {
	return strings.ToLower(strings.TrimSpace(string(id)))
}

// EpisodeCount is the number of aired regular episodes the catalog reported for
// a show at the last successful fetch.
type EpisodeCount struct {
	ShowID ShowID `db:"show_id" json:"show_id"`
	Count  int    `db:"count" json:"count"`
}

// SyncState is the persisted state of the episode count synchronisation.
// LastUpdateTime is nil until a first run completes without failures.
type SyncState struct {
	LastUpdateTime *string
	Counts         map[ShowID]int
	LastSyncFailed bool
}

// NewSyncState returns an empty state for a source that was never synced.
func NewSyncState() *SyncState {
	return &SyncState{Counts: make(map[ShowID]int)}
}

// Clone returns a deep copy of the state.
func (s *SyncState) Clone() *SyncState {
	c := &SyncState{
		Counts:         make(map[ShowID]int, len(s.Counts)),
		LastSyncFailed: s.LastSyncFailed,
	}
	if s.LastUpdateTime != nil {
		cursor := *s.LastUpdateTime
		c.LastUpdateTime = &cursor
	}
	for id, n := range s.Counts {
		c.Counts[id] = n
	}
	return c
}
