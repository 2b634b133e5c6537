package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"episode_syncer/internal/domain"
)

var (
	bucketSyncState     = []byte("sync_state")
	bucketEpisodeCounts = []byte("episode_counts")
)

// stateRecord is the JSON value stored per source in the sync_state bucket.
type stateRecord struct {
	LastUpdateTime *string   `json:"last_update_time"`
	LastSyncFailed bool      `json:"last_sync_failed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SyncStateStore keeps the sync state in a local bbolt file. Each source owns
// a nested bucket of show id to count.
type SyncStateStore struct {
	db *bbolt.DB
}

func Open(path string) (*SyncStateStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketSyncState, bucketEpisodeCounts} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SyncStateStore{db: db}, nil
}

func (s *SyncStateStore) Close() error {
	return s.db.Close()
}

func (s *SyncStateStore) Load(ctx context.Context, sourceID string) (*domain.SyncState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := domain.NewSyncState()

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSyncState).Get([]byte(sourceID))
		if data == nil {
			// Never synced
			return nil
		}

		var rec stateRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode sync state: %w", err)
		}
		state.LastUpdateTime = rec.LastUpdateTime
		state.LastSyncFailed = rec.LastSyncFailed

		counts := tx.Bucket(bucketEpisodeCounts).Bucket([]byte(sourceID))
		if counts == nil {
			return nil
		}
		return counts.ForEach(func(k, v []byte) error {
			n, err := strconv.Atoi(string(v))
			if err != nil {
				return fmt.Errorf("decode count for %s: %w", k, err)
			}
			state.Counts[domain.ShowID(k)] = n
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// Save replaces the stored state of sourceID in a single transaction.
func (s *SyncStateStore) Save(ctx context.Context, sourceID string, state *domain.SyncState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(stateRecord{
		LastUpdateTime: state.LastUpdateTime,
		LastSyncFailed: state.LastSyncFailed,
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSyncState).Put([]byte(sourceID), data); err != nil {
			return fmt.Errorf("put sync state: %w", err)
		}

		parent := tx.Bucket(bucketEpisodeCounts)
		if err := parent.DeleteBucket([]byte(sourceID)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("clear episode counts: %w", err)
		}
		counts, err := parent.CreateBucket([]byte(sourceID))
		if err != nil {
			return fmt.Errorf("create episode counts: %w", err)
		}

		for id, n := range state.Counts {
			if err := counts.Put([]byte(id), []byte(strconv.Itoa(n))); err != nil {
				return fmt.Errorf("put count for %s: %w", id, err)
			}
		}
		return nil
	})
}
