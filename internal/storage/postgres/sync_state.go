package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"episode_syncer/internal/domain"
)

type syncStateRow struct {
	LastUpdateTime *string `db:"last_update_time"`
	LastSyncFailed bool    `db:"last_sync_failed"`
}

// SyncStateStore persists a domain.SyncState as one sync_state row plus one
// episode_counts row per show.
type SyncStateStore struct {
	db     *sqlx.DB
	tm     *TransactionManager
	counts *EpisodeCountStore
}

func NewSyncStateStore(db *sqlx.DB, tm *TransactionManager) *SyncStateStore {
	return &SyncStateStore{
		db:     db,
		tm:     tm,
		counts: NewEpisodeCountStore(db),
	}
}

func (s *SyncStateStore) Load(ctx context.Context, sourceID string) (*domain.SyncState, error) {
	state := domain.NewSyncState()

	err := s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		var row syncStateRow
		query := `
			SELECT last_update_time, last_sync_failed
			FROM sync_state
			WHERE source_id = $1`

		err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, sourceID)
		if errors.Is(err, sql.ErrNoRows) {
			// Never synced
			return nil
		}
		if err != nil {
			return fmt.Errorf("get sync state: %w", err)
		}
		state.LastUpdateTime = row.LastUpdateTime
		state.LastSyncFailed = row.LastSyncFailed

		counts, err := s.counts.List(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, c := range counts {
			state.Counts[c.ShowID] = c.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// Save replaces the persisted state of sourceID with state atomically.
func (s *SyncStateStore) Save(ctx context.Context, sourceID string, state *domain.SyncState) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO sync_state (source_id, last_update_time, last_sync_failed, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (source_id) DO UPDATE SET
				last_update_time = EXCLUDED.last_update_time,
				last_sync_failed = EXCLUDED.last_sync_failed,
				updated_at = EXCLUDED.updated_at`

		_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
			sourceID,
			state.LastUpdateTime,
			state.LastSyncFailed,
		)
		if err != nil {
			return fmt.Errorf("upsert sync state: %w", err)
		}

		if _, err := s.counts.DeleteExcept(ctx, sourceID, state.Counts); err != nil {
			return err
		}
		return s.counts.UpsertBatch(ctx, sourceID, state.Counts)
	})
}
